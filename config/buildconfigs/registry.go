package buildconfigs

import (
	_ "embed"

	buildMigrations "github.com/Layr-Labs/solkit-cli/config/buildconfigs/migrations"
	"github.com/Layr-Labs/solkit-cli/pkg/migration"
)

// Set the latest version
const LatestVersion = "0.0.2"

// --
// Versioned build documents
// --

//go:embed v0.0.1.yaml
var v0_0_1_default []byte

//go:embed v0.0.2.yaml
var v0_0_2_default []byte

// Map of version -> default document
var BuildConfigYamls = map[string][]byte{
	"0.0.1": v0_0_1_default,
	"0.0.2": v0_0_2_default,
}

// Map of sequential migrations
var MigrationChain = []migration.MigrationStep{
	{
		From:    "0.0.1",
		To:      "0.0.2",
		Apply:   buildMigrations.Migration_0_0_1_to_0_0_2,
		OldYAML: v0_0_1_default,
		NewYAML: v0_0_2_default,
	},
}
