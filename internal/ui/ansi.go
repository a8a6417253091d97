package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

var (
	forceColor   bool
	disableColor bool

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetColorMode applies the -color flag on top of the theme: auto colors
// only a terminal, always colors any writer, never turns color off.
// Call it after SetTheme.
func SetColorMode(mode string) error {
	switch strings.ToLower(mode) {
	case "", "auto":
		forceColor = false
	case "always":
		forceColor = true
	case "never":
		forceColor = false
		disableColor = true
	default:
		return fmt.Errorf("unknown color mode %q (auto, always, never)", mode)
	}
	return nil
}

// SetOutput redirects everything the package prints. Tests use it to capture
// output; nil keeps the current writer.
func SetOutput(out, errOut io.Writer) {
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

// Stdout and Stderr expose the current writers for callers that print
// directly.
func Stdout() io.Writer { return stdout }
func Stderr() io.Writer { return stderr }

func isTTY() bool {
	f, ok := stdout.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func C(color, s string) string {
	if disableColor || color == "" {
		return s
	}
	if forceColor || isTTY() {
		return color + s + reset
	}
	return s
}

// Dim renders secondary text such as list indexes.
func Dim(s string) string { return C(dim, s) }

func OK(msg string)   { fmt.Fprintln(stdout, C(fgGreen, symCheck+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(stderr, C(fgRed, symCross+" "+msg)) }
func Hint(msg string) { fmt.Fprintln(stderr, C(fgGray, "Hint: "+msg)) }
