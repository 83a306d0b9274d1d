package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Layr-Labs/solkit-cli/pkg/buildconfig"
	"github.com/Layr-Labs/solkit-cli/pkg/common"
	"github.com/Layr-Labs/solkit-cli/pkg/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "crosspay")
	app, log, _ := testutils.CreateTestApp(InitCommand)

	require.NoError(t, app.Run([]string{"solkit", "init", "--dir", dir}))
	assert.True(t, log.Contains("Created"))

	cfg, err := buildconfig.LoadFromProject(dir)
	require.NoError(t, err)
	assert.Equal(t, "crosspay", cfg.Project.Name)
	assert.False(t, cfg.Project.TelemetryEnabled)
	_, err = uuid.Parse(cfg.Project.ProjectUUID)
	assert.NoError(t, err)

	// the scaffold passes the path check too
	assert.NoError(t, buildconfig.CheckPaths(cfg, dir))

	for _, f := range []string{".gitignore", common.EnvExampleFile} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, f)
	}

	data, err := os.ReadFile(testutils.ConfigPath(dir))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Human readable project name")
}

func TestInitCommand_NameAndTelemetry(t *testing.T) {
	dir := t.TempDir()
	app, _, _ := testutils.CreateTestApp(InitCommand)

	require.NoError(t, app.Run([]string{"solkit", "init", "--name", "token-sale", "--enable-telemetry", dir}))

	cfg, err := buildconfig.LoadFromProject(dir)
	require.NoError(t, err)
	assert.Equal(t, "token-sale", cfg.Project.Name)
	assert.True(t, cfg.Project.TelemetryEnabled)
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	dir := testutils.CreateTempProject(t)
	before, err := os.ReadFile(testutils.ConfigPath(dir))
	require.NoError(t, err)

	app, _, _ := testutils.CreateTestApp(InitCommand)
	err = app.Run([]string{"solkit", "init", "--dir", dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	after, err := os.ReadFile(testutils.ConfigPath(dir))
	require.NoError(t, err)
	assert.Equal(t, before, after)

	require.NoError(t, app.Run([]string{"solkit", "init", "--overwrite", "--dir", dir}))
	cfg, err := buildconfig.LoadFromProject(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Project.ProjectUUID)
}

func TestInitCommand_KeepsExistingGitignore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("node_modules/\n"), 0644))

	app, _, _ := testutils.CreateTestApp(InitCommand)
	require.NoError(t, app.Run([]string{"solkit", "init", "--dir", dir}))

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "node_modules/\n", string(data))
}

func TestVersionCommand(t *testing.T) {
	app, _, out := testutils.CreateTestApp(VersionCommand)

	require.NoError(t, app.Run([]string{"solkit", "version"}))
	assert.Contains(t, out.String(), "Version: ")
	assert.Contains(t, out.String(), "Build config version: 0.0.2")
}
