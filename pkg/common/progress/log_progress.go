package progress

import (
	"sync"

	"github.com/Layr-Labs/solkit-cli/pkg/common/iface"
)

// LogProgressTracker reports each row once, through the logger, when it completes
type LogProgressTracker struct {
	mu     sync.Mutex
	logger iface.Logger
	set    rowSet
}

func NewLogProgressTracker(max int, logger iface.Logger) *LogProgressTracker {
	return &LogProgressTracker{
		logger: logger,
		set:    newRowSet(max),
	}
}

// ProgressRows returns all progress entries in the order they were first set
func (s *LogProgressTracker) ProgressRows() []iface.ProgressRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.rows()
}

func (s *LogProgressTracker) Set(id string, pct int, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, moved := s.set.update(id, pct, label)
	if moved && info.Percentage >= 100 {
		s.logger.Info("Progress: %s - %d%%", info.DisplayText, info.Percentage)
	}
}

// Render is a no-op; completed rows are logged from Set
func (s *LogProgressTracker) Render() {}

func (s *LogProgressTracker) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set.reset()
}
