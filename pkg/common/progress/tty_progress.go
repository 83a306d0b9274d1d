package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/Layr-Labs/solkit-cli/pkg/common/iface"
)

const barWidth = 20

// TTYProgressTracker redraws all rows in place using ANSI cursor movement
type TTYProgressTracker struct {
	mu         sync.Mutex
	set        rowSet
	linesDrawn int
	target     io.Writer
}

func NewTTYProgressTracker(max int, target io.Writer) *TTYProgressTracker {
	return &TTYProgressTracker{
		set:    newRowSet(max),
		target: target,
	}
}

// ProgressRows returns all progress entries in the order they were first set
func (t *TTYProgressTracker) ProgressRows() []iface.ProgressRow {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.set.rows()
}

func (t *TTYProgressTracker) Set(id string, pct int, label string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.set.update(id, pct, label)
}

func (t *TTYProgressTracker) Render() {
	t.mu.Lock()
	defer t.mu.Unlock()

	// move back over the previous frame
	if t.linesDrawn > 0 {
		fmt.Fprintf(t.target, "\033[%dA", t.linesDrawn)
	}
	t.linesDrawn = 0

	for _, id := range t.set.order {
		info := t.set.info[id]
		fmt.Fprintf(t.target, "\r\033[K%s %s %3d%% %s\n", info.Timestamp, buildBar(info.Percentage), info.Percentage, info.DisplayText)
		t.linesDrawn++
	}
}

func (t *TTYProgressTracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.set.reset()
	t.linesDrawn = 0
	fmt.Fprintf(t.target, "%s\n", time.Now().Format(timestampLayout))
}

func buildBar(pct int) string {
	pct = max(0, min(pct, 100))
	filled := pct * barWidth / 100
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled) + "]"
}
