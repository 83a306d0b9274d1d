package buildconfig

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigDir is the project-relative directory holding build.yaml
const DefaultConfigDir = "config"

// BuildConfigFile is the filename of the build document
const BuildConfigFile = "build.yaml"

// DefaultPath returns the build document location under a project root
func DefaultPath(projectDir string) string {
	return filepath.Join(projectDir, DefaultConfigDir, BuildConfigFile)
}

// Load reads the document at path, expands ${VAR} references in its values
// from the environment and parses it. Read failures are returned as-is;
// everything else is a ValidationErrors.
func Load(path string) (*BuildConfiguration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read build config: %w", err)
	}

	cfg, err := ParseWithEnv(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromProject loads config/build.yaml under projectDir
func LoadFromProject(projectDir string) (*BuildConfiguration, error) {
	return Load(DefaultPath(projectDir))
}

// CheckPaths verifies that the contracts directory exists under root.
// The build output directory may be missing but must not be a file.
func CheckPaths(cfg *BuildConfiguration, root string) error {
	var col collector

	contracts := resolve(root, cfg.ContractsDirectory)
	info, err := os.Stat(contracts)
	switch {
	case err != nil:
		col.add("contracts_directory", 0, "directory %s is not accessible: %v", contracts, err)
	case !info.IsDir():
		col.add("contracts_directory", 0, "%s is not a directory", contracts)
	}

	out := resolve(root, cfg.BuildOutputDirectory)
	if info, err := os.Stat(out); err == nil && !info.IsDir() {
		col.add("build_output_directory", 0, "%s exists and is not a directory", out)
	}

	return col.err()
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
