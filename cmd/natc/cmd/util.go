package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
)

// isTerminal reports whether f is attached to an interactive terminal,
// so diagnostics know whether ANSI color is appropriate.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd())
}
