// ABOUTME: Colour helpers for iterator shading: hex parsing, brightness adjustment and blending.
// ABOUTME: Wraps go-colorful so callers work with "#rrggbb" strings throughout.
package geom

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultIteratorColor is the colour assigned to iterators created without one.
const DefaultIteratorColor = "#4a90d9"

// ParseColor parses a "#rgb" or "#rrggbb" string.
func ParseColor(hex string) (colorful.Color, error) {
	if len(hex) == 4 && hex[0] == '#' {
		hex = fmt.Sprintf("#%c%c%c%c%c%c", hex[1], hex[1], hex[2], hex[2], hex[3], hex[3])
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("parse color %q: %w", hex, err)
	}
	return c, nil
}

// AdjustBrightness adds amount to each RGB channel, clamped to [0,255].
// Invalid input is returned unchanged.
func AdjustBrightness(hex string, amount int) string {
	c, err := ParseColor(hex)
	if err != nil {
		return hex
	}
	r, g, b := c.RGB255()
	return colorful.Color{
		R: float64(clamp255(int(r)+amount)) / 255,
		G: float64(clamp255(int(g)+amount)) / 255,
		B: float64(clamp255(int(b)+amount)) / 255,
	}.Hex()
}

// Blend mixes a toward b by t in RGB space. t is clamped to [0,1].
func Blend(a, b string, t float64) string {
	ca, err := ParseColor(a)
	if err != nil {
		return a
	}
	cb, err := ParseColor(b)
	if err != nil {
		return a
	}
	t = math.Max(0, math.Min(1, t))
	return ca.BlendRgb(cb, t).Clamped().Hex()
}

// Shade returns the colour for the index-th array linked to an iterator of
// the given base colour. Index 0 is the base colour; later entries fade
// toward white, never past 75%.
func Shade(base string, index int) string {
	if index <= 0 {
		return Blend(base, base, 0)
	}
	return Blend(base, "#ffffff", math.Min(0.15*float64(index), 0.75))
}

func clamp255(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
