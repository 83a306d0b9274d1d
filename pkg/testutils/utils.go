package testutils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Layr-Labs/solkit-cli/config/buildconfigs"
	"github.com/Layr-Labs/solkit-cli/pkg/common"
	"github.com/Layr-Labs/solkit-cli/pkg/common/logger"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// CreateTestApp wraps commands in an app that installs a NoopLogger and
// writes command output to the returned buffer
func CreateTestApp(commands ...*cli.Command) (*cli.App, *logger.NoopLogger, *bytes.Buffer) {
	noopLogger := logger.NewNoopLogger()
	noopProgressTracker := logger.NewNoopProgressTracker()
	out := &bytes.Buffer{}

	app := &cli.App{
		Name:     "solkit",
		Flags:    common.GlobalFlags,
		Writer:   out,
		Commands: commands,
		Before: func(cCtx *cli.Context) error {
			ctx := common.WithLogger(cCtx.Context, noopLogger)
			ctx = common.WithProgressTracker(ctx, noopProgressTracker)
			cCtx.Context = ctx
			return nil
		},
	}
	return app, noopLogger, out
}

// CreateTempProject lays out a project with the latest default build.yaml and
// a contracts directory, returning the project root
func CreateTempProject(t *testing.T) string {
	t.Helper()
	return CreateTempProjectWith(t, buildconfigs.BuildConfigYamls[buildconfigs.LatestVersion])
}

// CreateTempProjectWith is CreateTempProject with a custom build document
func CreateTempProjectWith(t *testing.T, doc []byte) string {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, common.ConfigDir), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "contracts"), 0755))
	require.NoError(t, os.WriteFile(ConfigPath(root), doc, 0644))
	return root
}

// ConfigPath returns the build document location for a project root
func ConfigPath(root string) string {
	return filepath.Join(root, common.ConfigDir, common.BuildConfig)
}

// Chdir changes the working directory for the rest of the test
func Chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Logf("Failed to return to original directory: %v", err)
		}
	})
}
