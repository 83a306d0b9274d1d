package logger

import (
	"fmt"
	"strings"
)

// splitLines formats msg once and returns its non-trailing lines
func splitLines(msg string, args ...any) []string {
	formatted := fmt.Sprintf(msg, args...)
	return strings.Split(strings.TrimSuffix(formatted, "\n"), "\n")
}

// trimmed strips surrounding newlines, reporting whether anything is left
func trimmed(msg string) (string, bool) {
	msg = strings.Trim(msg, "\n")
	return msg, msg != ""
}
