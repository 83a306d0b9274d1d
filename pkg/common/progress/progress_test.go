package progress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Layr-Labs/solkit-cli/pkg/common/iface"
	"github.com/Layr-Labs/solkit-cli/pkg/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogProgressTracker_LogsCompletionOnce(t *testing.T) {
	log := logger.NewNoopLogger()
	tracker := NewLogProgressTracker(5, log)

	tracker.Set("development", 10, "development: dialing")
	tracker.Set("development", 100, "development: ok")
	tracker.Set("development", 100, "development: ok")
	tracker.Set("development", 50, "development: regress")

	assert.Equal(t, []string{"Progress: development: ok - 100%"}, log.GetMessagesByLevel("INFO"))
	assert.Equal(t, []iface.ProgressRow{{Module: "development", Pct: 100, Label: "development: ok"}}, tracker.ProgressRows())
}

func TestLogProgressTracker_CapsRows(t *testing.T) {
	tracker := NewLogProgressTracker(2, logger.NewNoopLogger())

	tracker.Set("a", 1, "a")
	tracker.Set("b", 1, "b")
	tracker.Set("c", 1, "c")

	rows := tracker.ProgressRows()
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].Module)
	assert.Equal(t, "b", rows[1].Module)

	tracker.Clear()
	assert.Empty(t, tracker.ProgressRows())
}

func TestTTYProgressTracker_Render(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewTTYProgressTracker(5, &buf)

	tracker.Set("mainnet", 50, "mainnet: chain id")
	tracker.Render()
	assert.Contains(t, buf.String(), "[==========          ]  50% mainnet: chain id")

	buf.Reset()
	tracker.Set("mainnet", 100, "mainnet: ok")
	tracker.Render()
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\033[1A"), "expected cursor to move up over the previous frame")
	assert.Contains(t, out, "[====================] 100% mainnet: ok")
}

func TestBuildBar_Clamps(t *testing.T) {
	assert.Equal(t, "["+strings.Repeat(" ", 20)+"]", buildBar(-5))
	assert.Equal(t, "["+strings.Repeat("=", 20)+"]", buildBar(150))
}
