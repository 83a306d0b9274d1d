package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
)

// FindProjectRoot searches upward from dir for config/build.yaml
func FindProjectRoot(dir string) (string, error) {
	currentDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	for {
		configPath := filepath.Join(currentDir, ConfigDir, BuildConfig)
		if _, err := os.Stat(configPath); err == nil {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)
		// Reached filesystem root
		if parent == currentDir {
			break
		}
		currentDir = parent
	}

	return "", fmt.Errorf("not in a solkit project (no %s found)", filepath.Join(ConfigDir, BuildConfig))
}

// ResolveConfigPath returns the --config flag value when set, otherwise the
// build document of the enclosing project, along with the project root
func ResolveConfigPath(cCtx *cli.Context) (path string, root string, err error) {
	if p := cCtx.String("config"); p != "" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", "", fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		return abs, projectRootOf(abs), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", "", fmt.Errorf("failed to get current directory: %w", err)
	}
	root, err = FindProjectRoot(cwd)
	if err != nil {
		return "", "", err
	}
	return filepath.Join(root, ConfigDir, BuildConfig), root, nil
}

// projectRootOf maps <root>/config/build.yaml to <root>, any other file to its directory
func projectRootOf(configPath string) string {
	dir := filepath.Dir(configPath)
	if filepath.Base(dir) == ConfigDir {
		return filepath.Dir(dir)
	}
	return dir
}
