package geom

import "math"

// Transform rotates a point about Pivot by Angle (radians) and then
// translates it by Offset:
//
//	x' = (x - cx)·cos(θ) - (y - cy)·sin(θ) + tx + cx
//	y' = (x - cx)·sin(θ) + (y - cy)·cos(θ) + ty + cy
//
// The zero value is the identity. Transform is a plain value and safe to
// copy and share.
type Transform struct {
	Angle  float64 // radians
	Pivot  Point
	Offset Point
}

// Apply maps p from layout space into the transformed space.
func (t Transform) Apply(p Point) Point {
	r := Rotate(p, t.Pivot, t.Angle)
	return Point{r.X + t.Offset.X, r.Y + t.Offset.Y}
}

// Inverse maps p from the transformed space back into layout space.
func (t Transform) Inverse(p Point) Point {
	q := Point{p.X - t.Offset.X, p.Y - t.Offset.Y}
	return Rotate(q, t.Pivot, -t.Angle)
}

// Invert returns the transform that undoes t.
// Inverse(p) and Invert().Apply(p) agree up to floating-point rounding.
func (t Transform) Invert() Transform {
	// Rotating (p - offset) about the pivot by -θ equals rotating p about
	// the pivot by -θ and translating by the offset rotated by -θ, negated.
	c, s := math.Cos(-t.Angle), math.Sin(-t.Angle)
	off := Point{
		X: -(t.Offset.X*c - t.Offset.Y*s),
		Y: -(t.Offset.X*s + t.Offset.Y*c),
	}
	return Transform{Angle: -t.Angle, Pivot: t.Pivot, Offset: off}
}

// Func adapts the transform to a plain point mapping.
func (t Transform) Func() func(Point) Point {
	return t.Apply
}

// Rotate rotates p about pivot by angle radians.
func Rotate(p, pivot Point, angle float64) Point {
	c, s := math.Cos(angle), math.Sin(angle)
	dx := p.X - pivot.X
	dy := p.Y - pivot.Y
	return Point{
		X: dx*c - dy*s + pivot.X,
		Y: dx*s + dy*c + pivot.Y,
	}
}
