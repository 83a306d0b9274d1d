package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Layr-Labs/solkit-cli/config/buildconfigs"
	"github.com/Layr-Labs/solkit-cli/pkg/buildconfig"
	"github.com/Layr-Labs/solkit-cli/pkg/common"
	"github.com/Layr-Labs/solkit-cli/pkg/common/iface"
	"github.com/Layr-Labs/solkit-cli/pkg/migration"

	"github.com/urfave/cli/v2"
	sigsyaml "sigs.k8s.io/yaml"
)

var Command = &cli.Command{
	Name:  "config",
	Usage: "Views or manages the project's build configuration (config/build.yaml)",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{
			Name:  "list",
			Usage: "Display the build configuration (default)",
		},
		&cli.BoolFlag{
			Name:  "resolved",
			Usage: "With --list, print the validated configuration with defaults applied instead of the file",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print the validated configuration as JSON",
		},
		&cli.BoolFlag{
			Name:  "edit",
			Usage: "Open the build config in a text editor for manual editing",
		},
		&cli.StringSliceFlag{
			Name:  "set",
			Usage: "Set a value in the build config (--set compiler.optimizer.runs=500)",
		},
	}, common.GlobalFlags...),
	Subcommands: []*cli.Command{
		validateCommand,
		migrateCommand,
	},
	Action: func(cCtx *cli.Context) error {
		logger := common.LoggerFromContext(cCtx.Context)

		cfgPath, _, err := common.ResolveConfigPath(cCtx)
		if err != nil {
			return err
		}

		if cCtx.Bool("edit") {
			logger.Info("Opening config file for editing...")
			return EditConfig(cCtx, cfgPath)
		}

		if items := cCtx.StringSlice("set"); len(items) > 0 {
			// positional args are treated as more assignments
			items = append(items, cCtx.Args().Slice()...)
			return SetValues(logger, cfgPath, items)
		}

		cfg, err := buildconfig.Load(cfgPath)
		if err != nil {
			return err
		}

		if cCtx.Bool("json") {
			return writeJSON(cCtx.App.Writer, cfg)
		}
		return listConfig(cCtx.App.Writer, logger, cfgPath, cfg, cCtx.Bool("resolved"))
	},
}

var validateCommand = &cli.Command{
	Name:  "validate",
	Usage: "Validate the build configuration and report every violation",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{
			Name:  "check-paths",
			Usage: "Also require contracts_directory to exist relative to the project root",
		},
	}, common.GlobalFlags...),
	Action: func(cCtx *cli.Context) error {
		logger := common.LoggerFromContext(cCtx.Context)

		cfgPath, root, err := common.ResolveConfigPath(cCtx)
		if err != nil {
			return err
		}

		cfg, err := buildconfig.Load(cfgPath)
		if err == nil && cCtx.Bool("check-paths") {
			err = buildconfig.CheckPaths(cfg, root)
		}
		if err != nil {
			if violations := buildconfig.FieldErrors(err); len(violations) > 0 {
				for _, v := range violations {
					logger.Error("%s", v.Error())
				}
			}
			return err
		}

		logger.Info("%s is valid (%d network(s), compiler %s %s)",
			cfgPath, len(cfg.Networks), cfg.Compiler.Name, cfg.Compiler.Version)
		return nil
	},
}

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Upgrade the build configuration to the latest document version",
	Flags: append([]cli.Flag{}, common.GlobalFlags...),
	Action: func(cCtx *cli.Context) error {
		logger := common.LoggerFromContext(cCtx.Context)

		cfgPath, _, err := common.ResolveConfigPath(cCtx)
		if err != nil {
			return err
		}

		err = migration.MigrateYaml(logger, cfgPath, buildconfigs.LatestVersion, buildconfigs.MigrationChain)
		if errors.Is(err, migration.ErrAlreadyUpToDate) {
			logger.Info("%s is already at version %s", cfgPath, buildconfigs.LatestVersion)
			return nil
		}
		if err != nil {
			return err
		}

		// The migrated document must load; anything left over is the user's to fix
		if _, err := buildconfig.Load(cfgPath); err != nil {
			logger.Warn("Migrated to %s but the document is not valid yet", buildconfigs.LatestVersion)
			return err
		}
		logger.Info("Migrated %s to version %s", cfgPath, buildconfigs.LatestVersion)
		return nil
	},
}

// SetValues applies key.path=value assignments to the document at cfgPath.
// The file is only written when the edited document still validates.
func SetValues(logger iface.Logger, cfgPath string, items []string) error {
	rootDoc, err := common.LoadYAML(cfgPath)
	if err != nil {
		return fmt.Errorf("read config YAML: %w", err)
	}

	for _, item := range items {
		// Split into "key.path.to.field" and "value"
		idx := strings.Index(item, "=")
		if idx < 0 {
			return fmt.Errorf("invalid --set syntax %q (want key=val)", item)
		}
		pathStr, val := item[:idx], item[idx+1:]

		if _, err := common.WriteToPath(rootDoc, strings.Split(pathStr, "."), val); err != nil {
			return fmt.Errorf("setting value %s failed: %w", item, err)
		}
	}

	data, err := common.EncodeYAML(rootDoc)
	if err != nil {
		return err
	}
	if _, err := buildconfig.ParseWithEnv(data); err != nil {
		return fmt.Errorf("not saved: %w", err)
	}
	if err := os.WriteFile(cfgPath, data, 0644); err != nil {
		return fmt.Errorf("write config YAML: %w", err)
	}

	for _, item := range items {
		pathStr, val, _ := strings.Cut(item, "=")
		logger.Info("Set %s = %s", pathStr, val)
	}
	return nil
}

func listConfig(w io.Writer, logger iface.Logger, cfgPath string, cfg *buildconfig.BuildConfiguration, resolved bool) error {
	logger.Info("Displaying current configuration...")
	if cfg.Project.Name != "" {
		logger.Info("Project: %s", cfg.Project.Name)
	}
	logger.Info("Version: %s", cfg.Version)
	logger.Info("Telemetry enabled: %t", cfg.Project.TelemetryEnabled)
	logger.Info("Networks: %s", strings.Join(cfg.NetworkNames(), ", "))

	runs, active := cfg.Compiler.Optimizer.EffectiveRuns()
	if active {
		logger.Info("Compiler: %s %s (optimizer: %d runs)", cfg.Compiler.Name, cfg.Compiler.Version, runs)
	} else {
		logger.Info("Compiler: %s %s (optimizer disabled)", cfg.Compiler.Name, cfg.Compiler.Version)
	}

	if !resolved {
		if err := common.ListYaml(cfgPath, w); err != nil {
			return fmt.Errorf("failed to list config: %w", err)
		}
		return nil
	}

	// sigs.k8s.io/yaml honours the json tags, so keys stay snake_case
	out, err := sigsyaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	_, err = w.Write(out)
	return err
}

func writeJSON(w io.Writer, cfg *buildconfig.BuildConfiguration) error {
	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
