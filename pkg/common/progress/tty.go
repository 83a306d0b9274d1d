package progress

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether stdout is attached to a terminal
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
