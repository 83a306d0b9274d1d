package buildMigrations

import (
	"github.com/Layr-Labs/solkit-cli/pkg/common"
	"github.com/Layr-Labs/solkit-cli/pkg/migration"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

func Migration_0_0_1_to_0_0_2(user, old, new *yaml.Node) (*yaml.Node, error) {
	// Legacy truffle-style keys
	migration.RenameKey(user, []string{"contracts_build_directory"}, "build_output_directory")
	if networks := migration.ResolveNode(user, []string{"networks"}); networks != nil && networks.Kind == yaml.MappingNode {
		for i := 1; i < len(networks.Content); i += 2 {
			migration.RenameKey(networks.Content[i], []string{"gas"}, "gas_limit")
		}
	}

	engine := migration.PatchEngine{
		Old:  old,
		New:  new,
		User: user,
		Rules: []migration.PatchRule{
			// Add the project block with a fresh uuid
			{
				Path:      []string{"project"},
				Condition: migration.IfUnchanged{},
				Transform: func(n *yaml.Node) *yaml.Node {
					if id := common.GetChildByKey(n, "project_uuid"); id != nil {
						id.Value = uuid.New().String()
						id.Style = yaml.DoubleQuotedStyle
					}
					return n
				},
			},
			// Compiler name was implied (solc) before 0.0.2
			{Path: []string{"compiler", "name"}, Condition: migration.IfUnchanged{}},
		},
	}
	if err := engine.Apply(); err != nil {
		return nil, err
	}

	// bump version node
	if v := migration.ResolveNode(user, []string{"version"}); v != nil {
		v.Value = "0.0.2"
	}
	return user, nil
}
