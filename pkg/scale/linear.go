// Package scale maps semantic domains (seasons, race counts, titles) onto
// geometric ranges (pixels, radii, colors).
package scale

import "math"

// Linear is a continuous linear mapping from [D0, D1] to [R0, R1].
// Values outside the domain extrapolate. A degenerate domain (D0 == D1)
// maps every input to the middle of the range.
type Linear struct {
	D0, D1 float64
	R0, R1 float64
	Round  bool
}

// NewLinear creates a linear scale.
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Rounded returns a copy of the scale that rounds its output.
func (s Linear) Rounded() Linear {
	s.Round = true
	return s
}

// Map applies the scale.
func (s Linear) Map(v float64) float64 {
	var out float64
	if s.D1 == s.D0 {
		out = (s.R0 + s.R1) / 2
	} else {
		t := (v - s.D0) / (s.D1 - s.D0)
		out = s.R0 + t*(s.R1-s.R0)
	}
	if s.Round {
		out = math.Round(out)
	}
	return out
}

// Invert maps a range value back into the domain.
// A degenerate domain or range returns D0.
func (s Linear) Invert(r float64) float64 {
	if s.R1 == s.R0 || s.D1 == s.D0 {
		return s.D0
	}
	t := (r - s.R0) / (s.R1 - s.R0)
	return s.D0 + t*(s.D1-s.D0)
}

// Domain returns the domain bounds.
func (s Linear) Domain() (float64, float64) { return s.D0, s.D1 }

// Range returns the range bounds.
func (s Linear) Range() (float64, float64) { return s.R0, s.R1 }

// Extent returns the minimum and maximum of values.
// ok is false for an empty input.
func Extent(values []float64) (lo, hi float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, true
}
