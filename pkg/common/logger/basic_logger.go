package logger

import (
	"log"
)

// BasicLogger prints plain lines through the standard logger for interactive terminals
type BasicLogger struct {
	verbose bool
}

func NewLogger(verbose bool) *BasicLogger {
	return &BasicLogger{
		verbose: verbose,
	}
}

func (l *BasicLogger) Title(msg string, args ...any) {
	l.print("", "\n"+msg+"\n", args...)
}

func (l *BasicLogger) Info(msg string, args ...any) {
	l.print("", msg, args...)
}

func (l *BasicLogger) Warn(msg string, args ...any) {
	l.print("Warning: ", msg, args...)
}

func (l *BasicLogger) Error(msg string, args ...any) {
	l.print("Error: ", msg, args...)
}

func (l *BasicLogger) Debug(msg string, args ...any) {
	// skip debug when !verbose
	if !l.verbose {
		return
	}
	l.print("Debug: ", msg, args...)
}

func (l *BasicLogger) print(prefix, msg string, args ...any) {
	for _, line := range splitLines(msg, args...) {
		log.Printf("%s%s", prefix, line)
	}
}
