package bubble

import (
	"github.com/ha1tch/f1-bubbles/pkg/geom"
	"github.com/ha1tch/f1-bubbles/pkg/label"
	"github.com/ha1tch/f1-bubbles/pkg/pilot"
	"github.com/ha1tch/f1-bubbles/pkg/viewport"
)

// Result is the settled output of one layout pass. It is a snapshot: the
// simulation that produced it is gone by the time the caller sees it.
type Result struct {
	RunID     string          `json:"runId"`
	Params    viewport.Params `json:"params"`
	Transform geom.Transform  `json:"transform"`

	Shapes []Shape           `json:"shapes"`
	Labels []label.Placement `json:"labels,omitempty"`
	Axis   geom.Segment      `json:"axis"`
	Legend Legend            `json:"legend"`

	Omitted      []string     `json:"omitted,omitempty"`
	MissingLinks []pilot.Pair `json:"missingLinks,omitempty"`
	Links        []Link       `json:"links,omitempty"`

	Frames     int     `json:"frames"`
	Converged  bool    `json:"converged"`
	MaxOverlap float64 `json:"maxOverlap"`
}

// Shape is one positioned disc in simulation space.
type Shape struct {
	Name    string     `json:"name"`
	Display string     `json:"display"`
	Kind    pilot.Kind `json:"kind"`
	X       float64    `json:"x"`
	Y       float64    `json:"y"`
	Radius  float64    `json:"radius"`
	Color   string     `json:"color"`

	Races  int    `json:"racesCount"`
	Years  []int  `json:"years"`
	Titles []int  `json:"titles,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Center returns the shape position as a point.
func (s Shape) Center() geom.Point {
	return geom.Point{X: s.X, Y: s.Y}
}

// IsAnchor reports whether the shape is a year marker.
func (s Shape) IsAnchor() bool {
	return s.Kind == pilot.KindAnchor
}

// Legend samples the radius and color scales of the pass.
type Legend struct {
	Radius []LegendDisc   `json:"radius"`
	Color  []LegendSwatch `json:"color"`
}

// LegendDisc is the disc radius drawn for a race count.
type LegendDisc struct {
	Races  int     `json:"races"`
	Radius float64 `json:"radius"`
}

// LegendSwatch is the fill drawn for a championship count.
type LegendSwatch struct {
	Titles int    `json:"titles"`
	Color  string `json:"color"`
}

// Race and title counts sampled by the legend.
var (
	LegendRaces  = []int{300, 250, 200, 150, 100, 50, 1}
	LegendTitles = []int{0, 1, 2, 3, 4, 5, 6, 7}
)

// Link is a resolved curated pair, by shape name.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Screen maps a simulation-space point to surface coordinates.
func (r *Result) Screen(p geom.Point) geom.Point {
	return r.Transform.Apply(p)
}

// LabelScreen maps a point of a label placement to surface coordinates:
// the label group rotation first, then the chart transform.
func (r *Result) LabelScreen(pl label.Placement, p geom.Point) geom.Point {
	q := geom.Rotate(p, pl.Rotation.Pivot, geom.Radians(pl.Rotation.Degrees))
	return r.Transform.Apply(q)
}

// Find returns the shape with the given name.
func (r *Result) Find(name string) (Shape, bool) {
	for _, s := range r.Shapes {
		if s.Name == name {
			return s, true
		}
	}
	return Shape{}, false
}

// HitTest returns the topmost shape whose disc contains the surface point p.
func (r *Result) HitTest(p geom.Point) (Shape, bool) {
	q := r.Transform.Inverse(p)
	for i := len(r.Shapes) - 1; i >= 0; i-- {
		s := r.Shapes[i]
		if q.Dist(s.Center()) <= s.Radius {
			return s, true
		}
	}
	return Shape{}, false
}
