package logger

import (
	"fmt"
	"sync"
	"testing"

	"github.com/Layr-Labs/solkit-cli/pkg/common/iface"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ iface.Logger          = (*NoopLogger)(nil)
	_ iface.Logger          = (*BasicLogger)(nil)
	_ iface.Logger          = (*ZapLogger)(nil)
	_ iface.ProgressTracker = (*NoopProgressTracker)(nil)
)

func TestNoopLogger_LevelsAreBuffered(t *testing.T) {
	logger := NewNoopLogger()

	logger.Title("Loading %s", "build.yaml")
	logger.Info("network %s on port %d", "development", 8545)
	logger.Warn("optimizer disabled, runs=%d ignored", 200)
	logger.Error("invalid %s", "port")
	logger.Debug("parsed %d networks", 1)

	entries := logger.GetEntries()
	require.Len(t, entries, 5)
	assert.Equal(t, LogEntry{Level: "TITLE", Message: "\nLoading build.yaml\n"}, entries[0])
	assert.Equal(t, LogEntry{Level: "INFO", Message: "network development on port 8545"}, entries[1])
	assert.Equal(t, LogEntry{Level: "WARN", Message: "optimizer disabled, runs=200 ignored"}, entries[2])
	assert.Equal(t, LogEntry{Level: "ERROR", Message: "invalid port"}, entries[3])
	assert.Equal(t, LogEntry{Level: "DEBUG", Message: "parsed 1 networks"}, entries[4])
}

func TestNoopLogger_SkipsEmptyMessages(t *testing.T) {
	logger := NewNoopLogger()

	logger.Info("")
	logger.Info("\n\n")
	logger.Warn("\n")

	assert.Equal(t, 0, logger.Len())
}

func TestNoopLogger_Queries(t *testing.T) {
	logger := NewNoopLogger()
	logger.Info("Set compiler.version = 0.8.20")
	logger.Error("compiler.version: must be a semantic version")

	assert.True(t, logger.Contains("compiler.version"))
	assert.True(t, logger.ContainsLevel("ERROR", "semantic version"))
	assert.False(t, logger.ContainsLevel("INFO", "semantic version"))
	assert.Equal(t, []string{"Set compiler.version = 0.8.20"}, logger.GetMessagesByLevel("INFO"))
	assert.Len(t, logger.GetMessagesByLevel(""), 2)

	logger.Clear()
	assert.Equal(t, 0, logger.Len())
	assert.False(t, logger.Contains("compiler"))
}

func TestNoopLogger_ConcurrentSafety(t *testing.T) {
	logger := NewNoopLogger()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				logger.Info(fmt.Sprintf("worker %d message %d", id, j))
				_ = logger.Contains("worker")
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 500, logger.Len())
}
