package commands

import (
	"fmt"

	"github.com/Layr-Labs/solkit-cli/config/buildconfigs"
	"github.com/Layr-Labs/solkit-cli/internal/version"
	"github.com/Layr-Labs/solkit-cli/pkg/common"

	"github.com/urfave/cli/v2"
)

// VersionCommand defines the "version" command
var VersionCommand = &cli.Command{
	Name:  "version",
	Usage: "Print the version of solkit",
	Flags: append([]cli.Flag{}, common.GlobalFlags...),
	Action: func(cCtx *cli.Context) error {
		_, err := fmt.Fprintf(cCtx.App.Writer, "Version: %s\nCommit: %s\nBuild config version: %s\n",
			version.GetVersion(), version.GetCommit(), buildconfigs.LatestVersion)
		return err
	},
}
