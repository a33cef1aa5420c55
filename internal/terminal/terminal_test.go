package terminal

import (
	"os"
	"testing"
)

func TestColorEnabled(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want bool
	}{
		{"tty with color", Info{IsTTY: true}, true},
		{"not a tty", Info{IsTTY: false}, false},
		{"no-color env", Info{IsTTY: true, NoColor: true}, false},
		{"no-color flag", Info{IsTTY: true, ForceFlag: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.ColorEnabled(); got != tt.want {
				t.Errorf("ColorEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpinnersEnabled(t *testing.T) {
	plain := Info{IsTTY: true, NoColor: true}
	if plain.SpinnersEnabled() {
		t.Error("SpinnersEnabled() = true on a colorless terminal")
	}

	full := Info{IsTTY: true}
	if !full.SpinnersEnabled() {
		t.Error("SpinnersEnabled() = false on a color TTY")
	}
}

func TestInteractiveEnabled(t *testing.T) {
	if (&Info{IsTTY: false}).InteractiveEnabled() {
		t.Error("InteractiveEnabled() = true without a TTY")
	}
	if !(&Info{IsTTY: true}).InteractiveEnabled() {
		t.Error("InteractiveEnabled() = false on a TTY")
	}
}

func TestColorSuppressed(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "xterm-256color")
	if !colorSuppressed() {
		t.Error("colorSuppressed() = false with NO_COLOR set")
	}
}

func TestColorSuppressed_DumbTerm(t *testing.T) {
	unsetNoColor(t)
	t.Setenv("TERM", "dumb")
	if !colorSuppressed() {
		t.Error("colorSuppressed() = false with TERM=dumb")
	}
}

func TestColorSuppressed_Default(t *testing.T) {
	unsetNoColor(t)
	t.Setenv("TERM", "xterm-256color")
	if colorSuppressed() {
		t.Error("colorSuppressed() = true on a plain color terminal")
	}
}

// unsetNoColor removes NO_COLOR for the test. t.Setenv registers the
// restore, then the variable is unset because LookupEnv distinguishes
// empty from absent.
func unsetNoColor(t *testing.T) {
	t.Helper()
	t.Setenv("NO_COLOR", "")
	os.Unsetenv("NO_COLOR")
}
