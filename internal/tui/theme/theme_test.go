package theme

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestCurrent_DefaultsToCatppuccinMocha(t *testing.T) {
	th := Current()
	if th.Name != "catppuccin-mocha" {
		t.Fatalf("expected catppuccin-mocha theme, got %s", th.Name)
	}
	if th.S() != th.S() {
		t.Error("styles should be built once")
	}
}

func TestSet_UnknownTheme(t *testing.T) {
	if Set("solarized-neon") {
		t.Error("unknown theme should not be accepted")
	}
	if !Set("catppuccin-mocha") {
		t.Error("registered theme should be accepted")
	}
}

func TestInterpolateColor(t *testing.T) {
	tests := []struct {
		a, b string
		pos  float64
		want string
	}{
		{"#000000", "#ffffff", 0, "#000000"},
		{"#000000", "#ffffff", 1, "#ffffff"},
		{"#000000", "#ff0080", 0.5, "#7f0040"},
	}
	for _, tt := range tests {
		if got := InterpolateColor(tt.a, tt.b, tt.pos); got != tt.want {
			t.Errorf("InterpolateColor(%s, %s, %v) = %s, want %s", tt.a, tt.b, tt.pos, got, tt.want)
		}
	}
}

func TestInterpolateColor_ClampsPosition(t *testing.T) {
	if got := InterpolateColor("#102030", "#ffffff", -1); got != "#102030" {
		t.Errorf("negative position should clamp to the start, got %s", got)
	}
	if got := InterpolateColor("#102030", "#ffffff", 2); got != "#ffffff" {
		t.Errorf("position above one should clamp to the end, got %s", got)
	}
}

func TestParseHex(t *testing.T) {
	rgb, ok := parseHex("#cba6f7")
	if !ok || rgb != [3]uint8{0xcb, 0xa6, 0xf7} {
		t.Errorf("got %v, %v", rgb, ok)
	}
	for _, bad := range []string{"bad", "#12345", "#zzzzzz"} {
		if _, ok := parseHex(bad); ok {
			t.Errorf("%q should not parse", bad)
		}
	}
}

func TestApplyGradient(t *testing.T) {
	if ApplyGradient("", "#000000", "#ffffff") != "" {
		t.Error("empty text should stay empty")
	}
	out := ansi.Strip(ApplyGradient("ab cd", "#000000", "#ffffff"))
	if out != "ab cd" {
		t.Errorf("stripped gradient should keep the text, got %q", out)
	}
}
