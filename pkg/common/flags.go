package common

import "github.com/urfave/cli/v2"

// GlobalFlags defines flags that apply to the entire application (global flags).
var GlobalFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Enable verbose logging",
	},
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the build config (defaults to config/build.yaml in the project root)",
		EnvVars: []string{"SOLKIT_CONFIG"},
	},
	&cli.BoolFlag{
		Name:  "enable-telemetry",
		Usage: "Send anonymous usage metrics for this invocation",
	},
	&cli.BoolFlag{
		Name:  "disable-telemetry",
		Usage: "Never send usage metrics, even if the project opted in",
	},
}
