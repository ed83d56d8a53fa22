package scale

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultPalette runs from few to many championships.
var DefaultPalette = []string{"#51a7ca", "#50b229", "#f6b42a", "#e77820", "#d74e24", "#c21729"}

// Default colors outside the palette.
const (
	DefaultNeutral = "#c8d0d4" // pilots without a title
	DefaultAnchor  = "#ffffff" // year markers
)

// Color maps a championship count onto a palette, interpolating in HCL so
// midtones stay saturated. Zero titles bypass the palette and return the
// neutral color.
type Color struct {
	stops   []colorful.Color
	neutral colorful.Color
	max     int
}

// NewColor builds a color scale over the integer domain [0, max].
// Palette stops are spread evenly across [1, max].
func NewColor(palette []string, neutral string, max int) (Color, error) {
	if len(palette) == 0 {
		return Color{}, fmt.Errorf("scale: empty palette")
	}
	stops := make([]colorful.Color, len(palette))
	for i, hex := range palette {
		c, err := colorful.Hex(hex)
		if err != nil {
			return Color{}, fmt.Errorf("scale: palette[%d]: %w", i, err)
		}
		stops[i] = c
	}
	n, err := colorful.Hex(neutral)
	if err != nil {
		return Color{}, fmt.Errorf("scale: neutral color: %w", err)
	}
	return Color{stops: stops, neutral: n, max: max}, nil
}

// Map returns the color for a championship count.
//
// Only an exact zero takes the neutral color; the domain is discrete.
func (c Color) Map(titles int) colorful.Color {
	if titles <= 0 {
		return c.neutral
	}
	if c.max <= 1 || len(c.stops) == 1 {
		return c.stops[0]
	}
	if titles >= c.max {
		return c.stops[len(c.stops)-1]
	}

	// Position of titles within [1, max] expressed in palette segments.
	pos := float64(titles-1) / float64(c.max-1) * float64(len(c.stops)-1)
	i := int(pos)
	if i >= len(c.stops)-1 {
		return c.stops[len(c.stops)-1]
	}
	frac := pos - float64(i)
	if frac == 0 {
		return c.stops[i]
	}
	return c.stops[i].BlendHcl(c.stops[i+1], frac).Clamped()
}

// Hex returns the color for a championship count as #rrggbb.
func (c Color) Hex(titles int) string {
	return c.Map(titles).Hex()
}

// Max returns the upper end of the domain.
func (c Color) Max() int { return c.max }
