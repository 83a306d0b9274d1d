package commands

import (
	"fmt"

	"github.com/Layr-Labs/solkit-cli/pkg/buildconfig"
	configcmd "github.com/Layr-Labs/solkit-cli/pkg/commands/config"
	"github.com/Layr-Labs/solkit-cli/pkg/common"
	"github.com/Layr-Labs/solkit-cli/pkg/common/iface"

	"github.com/urfave/cli/v2"
)

// TelemetryCommand manages the project's telemetry opt-in
var TelemetryCommand = &cli.Command{
	Name:  "telemetry",
	Usage: "Manage telemetry settings",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{
			Name:  "enable",
			Usage: "Enable telemetry collection for this project",
		},
		&cli.BoolFlag{
			Name:  "disable",
			Usage: "Disable telemetry collection for this project",
		},
		&cli.BoolFlag{
			Name:  "status",
			Usage: "Show current telemetry status",
		},
	}, common.GlobalFlags...),
	Action: func(cCtx *cli.Context) error {
		logger := common.LoggerFromContext(cCtx.Context)

		enable := cCtx.Bool("enable")
		disable := cCtx.Bool("disable")
		status := cCtx.Bool("status")

		if (enable && disable) || (!enable && !disable && !status) {
			return fmt.Errorf("specify exactly one of --enable, --disable, or --status")
		}

		cfgPath, _, err := common.ResolveConfigPath(cCtx)
		if err != nil {
			return err
		}

		if status {
			return showTelemetryStatus(cCtx, logger, cfgPath)
		}
		return setProjectTelemetry(logger, cfgPath, enable)
	},
}

func showTelemetryStatus(cCtx *cli.Context, logger iface.Logger, cfgPath string) error {
	cfg, err := buildconfig.Load(cfgPath)
	if err != nil {
		return err
	}

	if cfg.Project.TelemetryEnabled {
		logger.Info("Telemetry: Enabled (project setting)")
	} else {
		logger.Info("Telemetry: Disabled (project setting)")
	}

	switch {
	case cCtx.Bool("disable-telemetry"):
		logger.Info("Overridden for this run by --disable-telemetry")
	case cCtx.Bool("enable-telemetry") && !cfg.Project.TelemetryEnabled:
		logger.Info("Overridden for this run by --enable-telemetry")
	}
	return nil
}

func setProjectTelemetry(logger iface.Logger, cfgPath string, enabled bool) error {
	if err := configcmd.SetValues(logger, cfgPath, []string{fmt.Sprintf("project.telemetry_enabled=%t", enabled)}); err != nil {
		return fmt.Errorf("failed to update project telemetry: %w", err)
	}

	if enabled {
		logger.Info("✅ Telemetry enabled for this project")
	} else {
		logger.Info("❌ Telemetry disabled for this project")
	}
	return nil
}
