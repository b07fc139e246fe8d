package config

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ParseColor accepts "#rgb" and "#rrggbb" hex colours.
func ParseColor(s string) (colorful.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return c, nil
}

// Palette returns n visually distinct hex colours with hues spread evenly
// around the HCL wheel.
func Palette(n int) []string {
	out := make([]string, n)
	for i := range out {
		h := 360.0 * float64(i) / float64(max(n, 1))
		out[i] = colorful.Hcl(h, 0.6, 0.7).Clamped().Hex()
	}
	return out
}
