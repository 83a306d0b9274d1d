package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Layr-Labs/solkit-cli/internal/version"
	"github.com/Layr-Labs/solkit-cli/pkg/commands"
	"github.com/Layr-Labs/solkit-cli/pkg/commands/config"
	"github.com/Layr-Labs/solkit-cli/pkg/commands/networks"
	"github.com/Layr-Labs/solkit-cli/pkg/common"
	"github.com/Layr-Labs/solkit-cli/pkg/common/logger"
	"github.com/Layr-Labs/solkit-cli/pkg/hooks"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx := common.WithShutdown(context.Background())

	app := &cli.App{
		Name:                   "solkit",
		Usage:                  "Manage the build configuration of a smart-contract project",
		Version:                version.GetVersion(),
		Flags:                  common.GlobalFlags,
		UseShortOptionHandling: true,
		Commands: []*cli.Command{
			commands.InitCommand,
			config.Command,
			networks.Command,
			commands.TelemetryCommand,
			commands.VersionCommand,
		},
		Before: func(cCtx *cli.Context) error {
			log, tracker := common.GetLoggerFromCLIContext(cCtx)
			cCtx.Context = common.WithProgressTracker(common.WithLogger(cCtx.Context, log), tracker)

			if err := hooks.LoadEnvFile(cCtx); err != nil {
				return err
			}
			if err := hooks.WithAppEnvironment(cCtx); err != nil {
				return err
			}
			return hooks.WithCommandMetricsContext(cCtx)
		},
		After: func(cCtx *cli.Context) error {
			if zl, ok := common.LoggerFromContext(cCtx.Context).(*logger.ZapLogger); ok {
				_ = zl.Sync()
			}
			return nil
		},
	}

	actionChain := hooks.NewActionChain()
	actionChain.Use(hooks.WithMetricEmission)
	hooks.ApplyMiddleware(app.Commands, actionChain)

	if err := app.RunContext(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
