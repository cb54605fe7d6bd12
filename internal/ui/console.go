package ui

import (
	"io"
	"os"

	"github.com/mattn/go-colorable"
)

// ANSI colour codes used by the terminal output
const (
	colorReset = "\033[0m"
	colorCyan  = "\033[36m"
	colorGreen = "\033[92m"
)

// Stdout returns a writer for user-facing output. Colour sequences are
// translated on Windows consoles and stripped when noColor is set.
func Stdout(noColor bool) io.Writer {
	if noColor {
		return colorable.NewNonColorable(os.Stdout)
	}
	return colorable.NewColorableStdout()
}

// Stderr is the diagnostic counterpart of Stdout.
func Stderr(noColor bool) io.Writer {
	if noColor {
		return colorable.NewNonColorable(os.Stderr)
	}
	return colorable.NewColorableStderr()
}

// paint wraps s in code when enabled.
func paint(enabled bool, code, s string) string {
	if !enabled {
		return s
	}
	return code + s + colorReset
}
