// Geometric primitives shared by the layout engine, label placement and renderers.

package geom

import "math"

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Segment is a straight line between two points.
type Segment struct {
	X1, Y1 float64
	X2, Y2 float64
}

// SegmentOf builds a segment from two points.
func SegmentOf(a, b Point) Segment {
	return Segment{a.X, a.Y, b.X, b.Y}
}

// Start returns the first endpoint.
func (s Segment) Start() Point { return Point{s.X1, s.Y1} }

// End returns the second endpoint.
func (s Segment) End() Point { return Point{s.X2, s.Y2} }

// IsVertical reports whether the segment has no horizontal extent.
func (s Segment) IsVertical() bool { return s.X1 == s.X2 }

// IsHorizontal reports whether the segment has no vertical extent.
func (s Segment) IsHorizontal() bool { return s.Y1 == s.Y2 }

// Length returns the segment length.
func (s Segment) Length() float64 {
	return math.Hypot(s.X2-s.X1, s.Y2-s.Y1)
}

// Rect represents an axis-aligned rectangle.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{(r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2}
}

// Contains checks if a point is inside the rectangle, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Inset grows (d < 0) or shrinks (d > 0) the rectangle on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{r.MinX + d, r.MinY + d, r.MaxX - d, r.MaxY - d}
}

// Clamp returns the point of r nearest to p.
func (r Rect) Clamp(p Point) Point {
	return Point{
		X: math.Max(r.MinX, math.Min(r.MaxX, p.X)),
		Y: math.Max(r.MinY, math.Min(r.MaxY, p.Y)),
	}
}

// Bounds returns the bounding box of a set of points.
// Returns the zero Rect for an empty set.
func Bounds(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}

	r := Rect{points[0].X, points[0].Y, points[0].X, points[0].Y}
	for _, p := range points[1:] {
		if p.X < r.MinX {
			r.MinX = p.X
		}
		if p.Y < r.MinY {
			r.MinY = p.Y
		}
		if p.X > r.MaxX {
			r.MaxX = p.X
		}
		if p.Y > r.MaxY {
			r.MaxY = p.Y
		}
	}
	return r
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}
