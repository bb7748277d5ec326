package theme

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
)

// InterpolateColor returns the hex color at pos (clamped to 0..1) on the
// line from a to b. Malformed colors count as black.
func InterpolateColor(a, b string, pos float64) string {
	pos = min(max(pos, 0), 1)
	from, _ := parseHex(a)
	to, _ := parseHex(b)

	var out [3]uint8
	for i := range out {
		out[i] = uint8(float64(from[i])*(1-pos) + float64(to[i])*pos)
	}
	return fmt.Sprintf("#%02x%02x%02x", out[0], out[1], out[2])
}

// ApplyGradient colors each rune of text along the gradient from -> to.
// Spaces are left unstyled.
func ApplyGradient(text, from, to string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	var sb strings.Builder
	last := float64(max(len(runes)-1, 1))
	for i, r := range runes {
		if r == ' ' {
			sb.WriteRune(r)
			continue
		}
		c := InterpolateColor(from, to, float64(i)/last)
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(string(r)))
	}
	return sb.String()
}

// parseHex reads "#rrggbb" or "rrggbb".
func parseHex(hex string) ([3]uint8, bool) {
	var rgb [3]uint8
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return rgb, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return rgb, false
	}
	rgb[0], rgb[1], rgb[2] = uint8(v>>16), uint8(v>>8), uint8(v)
	return rgb, true
}
