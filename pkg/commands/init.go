package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Layr-Labs/solkit-cli/config"
	"github.com/Layr-Labs/solkit-cli/config/buildconfigs"
	"github.com/Layr-Labs/solkit-cli/pkg/buildconfig"
	"github.com/Layr-Labs/solkit-cli/pkg/common"
	"github.com/Layr-Labs/solkit-cli/pkg/common/iface"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// InitCommand defines the "init" command
var InitCommand = &cli.Command{
	Name:      "init",
	Usage:     "Initializes config/build.yaml for a smart-contract project",
	ArgsUsage: "[target-dir]",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "name",
			Usage: "Project name (defaults to the target directory name)",
		},
		&cli.StringFlag{
			Name:  "dir",
			Usage: "Set the project directory",
			Value: ".",
		},
		&cli.BoolFlag{
			Name:  "overwrite",
			Usage: "Replace an existing config/build.yaml",
		},
	}, common.GlobalFlags...),
	Action: func(cCtx *cli.Context) error {
		logger := common.LoggerFromContext(cCtx.Context)

		targetDir := cCtx.String("dir")
		if dest := cCtx.Args().First(); dest != "" {
			targetDir = dest
		}
		targetDir, err := filepath.Abs(targetDir)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path for target directory: %w", err)
		}

		name := cCtx.String("name")
		if name == "" {
			name = filepath.Base(targetDir)
		}

		logger.Debug("Initialising project %s in %s", name, targetDir)
		cfgPath, err := initProject(logger, targetDir, name, cCtx.Bool("enable-telemetry"), cCtx.Bool("overwrite"))
		if err != nil {
			return err
		}

		logger.Info("Created %s", cfgPath)
		logger.Info("Next: set compiler.version with `solkit config --set compiler.version=<x.y.z>` and check your nodes with `solkit networks verify`")
		return nil
	},
}

// initProject writes the latest default build document with a fresh project
// uuid, plus .gitignore, .env.example and the contracts directory
func initProject(logger iface.Logger, targetDir, name string, telemetry, overwrite bool) (string, error) {
	cfgPath := filepath.Join(targetDir, common.ConfigDir, common.BuildConfig)
	if _, err := os.Stat(cfgPath); err == nil && !overwrite {
		return "", fmt.Errorf("%s already exists (use --overwrite to replace it)", cfgPath)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(buildconfigs.BuildConfigYamls[buildconfigs.LatestVersion], &doc); err != nil {
		return "", fmt.Errorf("failed to parse default build config: %w", err)
	}
	settings := map[string]string{
		"name":              name,
		"project_uuid":      uuid.New().String(),
		"telemetry_enabled": strconv.FormatBool(telemetry),
	}
	for _, key := range []string{"name", "project_uuid", "telemetry_enabled"} {
		if _, err := common.WriteToPath(&doc, []string{"project", key}, settings[key]); err != nil {
			return "", fmt.Errorf("failed to set project.%s: %w", key, err)
		}
	}
	data, err := common.EncodeYAML(&doc)
	if err != nil {
		return "", err
	}

	// the scaffold must be loadable as written
	cfg, err := buildconfig.Parse(data)
	if err != nil {
		return "", fmt.Errorf("generated build config is invalid: %w", err)
	}

	for _, dir := range []string{filepath.Dir(cfgPath), filepath.Join(targetDir, cfg.ContractsDirectory)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(cfgPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", cfgPath, err)
	}

	files := map[string]string{
		".gitignore":          config.GitIgnore,
		common.EnvExampleFile: config.EnvExample,
	}
	for _, file := range []string{".gitignore", common.EnvExampleFile} {
		path := filepath.Join(targetDir, file)
		if _, err := os.Stat(path); err == nil {
			logger.Debug("Keeping existing %s", path)
			continue
		}
		if err := os.WriteFile(path, []byte(files[file]), 0644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return cfgPath, nil
}
