package scale

import (
	"math"

	"github.com/ha1tch/f1-bubbles/pkg/pilot"
	"github.com/ha1tch/f1-bubbles/pkg/viewport"
)

// DiscInset is subtracted from the scaled radius to leave a visible gap
// between touching bubbles.
const DiscInset = 2

// Options configures the scale set.
type Options struct {
	YearDomain [2]float64
	Palette    []string
	Neutral    string
	Anchor     string
}

// DefaultOptions returns the built-in scale configuration.
func DefaultOptions() Options {
	return Options{
		YearDomain: [2]float64{1938, 2025},
		Palette:    DefaultPalette,
		Neutral:    DefaultNeutral,
		Anchor:     DefaultAnchor,
	}
}

// Set holds the scales of one layout pass. It is rebuilt from the current
// entities and viewport on every pass.
type Set struct {
	X      Linear // first season -> position along the year axis
	Radius Linear // race count -> pixel radius, rounded
	Color  Color  // championship count -> fill

	anchorColor string
}

// Build derives all scales from the entity extents and viewport geometry.
func Build(entities []pilot.Entity, p viewport.Params, opts Options) (Set, error) {
	counts := make([]float64, len(entities))
	maxTitles := 0
	for i, e := range entities {
		counts[i] = float64(e.RacesCount)
		if n := e.Championships(); n > maxTitles {
			maxTitles = n
		}
	}
	lo, hi, ok := Extent(counts)
	if !ok {
		lo, hi = 1, 1
	}

	color, err := NewColor(opts.Palette, opts.Neutral, maxTitles)
	if err != nil {
		return Set{}, err
	}

	anchor := opts.Anchor
	if anchor == "" {
		anchor = DefaultAnchor
	}

	return Set{
		X:           NewLinear(opts.YearDomain[0], opts.YearDomain[1], 0, p.Diagonal),
		Radius:      NewLinear(lo, hi, p.RadiusRange[0], p.RadiusRange[1]).Rounded(),
		Color:       color,
		anchorColor: anchor,
	}, nil
}

// TargetX returns the x-position the entity is attracted to.
func (s Set) TargetX(e pilot.Entity) float64 {
	return s.X.Map(float64(e.FirstYear()))
}

// Disc returns the rendered and collision radius of the entity.
func (s Set) Disc(e pilot.Entity) float64 {
	return DiscRadius(s.Radius, float64(e.RacesCount))
}

// DiscRadius applies the radius scale and inset to a race count.
func DiscRadius(radius Linear, races float64) float64 {
	return math.Max(1, radius.Map(races)-DiscInset)
}

// Fill returns the fill color of the entity as #rrggbb.
func (s Set) Fill(e pilot.Entity) string {
	if e.IsAnchor() {
		return s.anchorColor
	}
	return s.Color.Hex(e.Championships())
}
