package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level zapcore.Level) (*ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewZapLoggerFrom(zap.New(core)), logs
}

func TestZapLogger_Levels(t *testing.T) {
	l, logs := newObservedLogger(zapcore.DebugLevel)

	l.Info("network %s on port %d", "development", 8545)
	l.Warn("optimizer disabled, runs=%d ignored", 200)
	l.Error("invalid %s", "port")
	l.Debug("parsed %d networks", 1)

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "network development on port 8545", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, zapcore.DebugLevel, entries[3].Level)
	assert.Equal(t, "parsed 1 networks", entries[3].Message)
}

func TestZapLogger_SkipsEmptyAndSplitsTitle(t *testing.T) {
	l, logs := newObservedLogger(zapcore.InfoLevel)

	l.Info("\n")
	l.Warn("")
	l.Debug("filtered by level")
	l.Title("Verifying %s", "networks")

	var messages []string
	for _, e := range logs.AllUntimed() {
		assert.Equal(t, zapcore.InfoLevel, e.Level)
		messages = append(messages, e.Message)
	}
	assert.Equal(t, []string{"", "Verifying networks"}, messages)
	assert.NoError(t, l.Sync())
}
