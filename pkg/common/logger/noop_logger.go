package logger

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Layr-Labs/solkit-cli/pkg/common/iface"
)

// LogEntry represents a single log entry with level and message
type LogEntry struct {
	Level   string
	Message string
}

// NoopLogger prints nothing and buffers every entry for test assertions.
// It is safe for concurrent use.
type NoopLogger struct {
	mu      sync.RWMutex
	entries []LogEntry
}

// NewNoopLogger creates a new no-op logger for testing
func NewNoopLogger() *NoopLogger {
	return &NoopLogger{
		entries: make([]LogEntry, 0),
	}
}

func (l *NoopLogger) Title(msg string, args ...any) {
	l.addEntry("TITLE", fmt.Sprintf("\n"+msg+"\n", args...))
}

func (l *NoopLogger) Info(msg string, args ...any)  { l.record("INFO", msg, args...) }
func (l *NoopLogger) Warn(msg string, args ...any)  { l.record("WARN", msg, args...) }
func (l *NoopLogger) Error(msg string, args ...any) { l.record("ERROR", msg, args...) }
func (l *NoopLogger) Debug(msg string, args ...any) { l.record("DEBUG", msg, args...) }

func (l *NoopLogger) record(level, msg string, args ...any) {
	if msg, ok := trimmed(msg); ok {
		l.addEntry(level, fmt.Sprintf(msg, args...))
	}
}

func (l *NoopLogger) addEntry(level, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: message})
}

// GetEntries returns a copy of all buffered log entries
func (l *NoopLogger) GetEntries() []LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]LogEntry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// GetMessagesByLevel returns all messages for a specific log level, or every
// message when level is empty
func (l *NoopLogger) GetMessagesByLevel(level string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var messages []string
	for _, entry := range l.entries {
		if level == "" || entry.Level == level {
			messages = append(messages, entry.Message)
		}
	}
	return messages
}

// Clear removes all buffered entries
func (l *NoopLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}

// Len returns the number of buffered entries
func (l *NoopLogger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Contains checks if any log entry contains the specified text
func (l *NoopLogger) Contains(text string) bool {
	return l.ContainsLevel("", text)
}

// ContainsLevel checks if any entry with the level (any level when empty) contains text
func (l *NoopLogger) ContainsLevel(level, text string) bool {
	for _, msg := range l.GetMessagesByLevel(level) {
		if strings.Contains(msg, text) {
			return true
		}
	}
	return false
}

// NoopProgressTracker is a progress tracker that does nothing (for testing)
type NoopProgressTracker struct{}

// NewNoopProgressTracker creates a new no-op progress tracker
func NewNoopProgressTracker() *NoopProgressTracker {
	return &NoopProgressTracker{}
}

func (n *NoopProgressTracker) ProgressRows() []iface.ProgressRow    { return []iface.ProgressRow{} }
func (n *NoopProgressTracker) Set(id string, pct int, label string) {}
func (n *NoopProgressTracker) Render()                              {}
func (n *NoopProgressTracker) Clear()                               {}
