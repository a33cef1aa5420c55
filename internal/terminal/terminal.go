// Package terminal inspects the capabilities of the terminal billctl is
// writing to, so the output layer can decide whether color, spinners,
// and prompts are safe. Detection happens once at startup; everything
// downstream reads the resulting Info.
package terminal

import (
	"os"

	"golang.org/x/term"
)

// Info captures what the attached terminal supports.
type Info struct {
	IsTTY     bool
	NoColor   bool
	Width     int
	Height    int
	ForceFlag bool // --no-color on the command line
}

// Detect inspects stdout and the environment and returns the terminal
// capabilities. When stdout is not a terminal (piped or redirected) the
// dimensions fall back to 80x24.
func Detect() *Info {
	fd := int(os.Stdout.Fd())
	isTTY := term.IsTerminal(fd)

	width, height := 80, 24
	if isTTY {
		if w, h, err := term.GetSize(fd); err == nil {
			width, height = w, h
		}
	}

	return &Info{
		IsTTY:   isTTY,
		NoColor: colorSuppressed(),
		Width:   width,
		Height:  height,
	}
}

// colorSuppressed honors the NO_COLOR convention (https://no-color.org/)
// and treats TERM=dumb terminals as colorless since they cannot render
// escape sequences.
func colorSuppressed() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return true
	}

	return os.Getenv("TERM") == "dumb"
}

// ColorEnabled reports whether output may carry ANSI color.
func (t *Info) ColorEnabled() bool {
	if t.ForceFlag {
		return false
	}

	return t.IsTTY && !t.NoColor
}

// InteractiveEnabled reports whether the user can answer prompts, such
// as the API key prompt during auth login.
func (t *Info) InteractiveEnabled() bool {
	return t.IsTTY
}

// SpinnersEnabled reports whether animated progress indicators are
// safe. Spinners redraw with escape sequences, so they need both a TTY
// and color support.
func (t *Info) SpinnersEnabled() bool {
	return t.IsTTY && !t.NoColor
}
