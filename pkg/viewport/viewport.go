// Package viewport derives the chart geometry from the host surface size.
//
// Everything downstream (scales, simulation bounds, the chart rotation and
// label suppression) is a function of the Params computed here, so a new
// Params value is produced on every layout pass.
package viewport

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotReady is returned when the surface has no usable size yet
// (for example before the host element is mounted). Callers skip layout.
var ErrNotReady = errors.New("viewport: surface not ready")

// Breakpoint classifies the surface width.
type Breakpoint int

const (
	Mobile       Breakpoint = iota // narrower than Rules.TabletMin
	Tablet                         // TabletMin up to DesktopMin
	DesktopLarge                   // wider than DesktopMin
)

func (b Breakpoint) String() string {
	switch b {
	case Mobile:
		return "mobile"
	case Tablet:
		return "tablet"
	case DesktopLarge:
		return "desktop-large"
	}
	return fmt.Sprintf("Breakpoint(%d)", int(b))
}

// Size is the outer size of the host surface in pixels.
type Size struct {
	Width, Height float64
}

// Padding around the chart area.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// Profile bundles the constants selected by a breakpoint.
type Profile struct {
	Padding      Padding
	RadiusRange  [2]float64 // pixel radius for the smallest and largest race count
	LinkDistance float64    // 0 disables the link force
	WidthShare   float64    // fraction of the padded width used by the chart
	Collision    float64    // collision strength
}

// Rules holds breakpoint thresholds and per-breakpoint profiles.
type Rules struct {
	TabletMin  float64 // first width classified as Tablet
	DesktopMin float64 // widths above this are DesktopLarge
	Profiles   map[Breakpoint]Profile
}

// DefaultRules returns the built-in breakpoint table.
func DefaultRules() Rules {
	return Rules{
		TabletMin:  768,
		DesktopMin: 1200,
		Profiles: map[Breakpoint]Profile{
			DesktopLarge: {
				Padding:      Padding{Top: 40, Right: 40, Bottom: 60, Left: 0},
				RadiusRange:  [2]float64{7, 35},
				LinkDistance: 200,
				WidthShare:   0.7,
				Collision:    1,
			},
			Tablet: {
				Padding:      Padding{Top: 40, Right: 40, Bottom: 50, Left: 0},
				RadiusRange:  [2]float64{6, 25},
				LinkDistance: 100,
				WidthShare:   0.7,
				Collision:    0.7,
			},
			Mobile: {
				Padding:      Padding{Top: 40, Right: 40, Bottom: 40, Left: 0},
				RadiusRange:  [2]float64{5, 18},
				LinkDistance: 0,
				WidthShare:   1,
				Collision:    0.7,
			},
		},
	}
}

// Classify returns the breakpoint for an outer width.
func (r Rules) Classify(width float64) Breakpoint {
	switch {
	case width < r.TabletMin:
		return Mobile
	case width > r.DesktopMin:
		return DesktopLarge
	default:
		return Tablet
	}
}

// Params is the derived geometry of one layout pass.
type Params struct {
	Outer       Size
	Breakpoint  Breakpoint
	Padding     Padding
	InnerWidth  float64
	InnerHeight float64
	Diagonal    float64 // length of the tilted year axis
	AngleRad    float64 // chart tilt, radians
	AngleDeg    float64 // chart tilt, degrees

	RadiusRange  [2]float64
	LinkDistance float64
	Collision    float64

	LinksEnabled  bool
	LabelsEnabled bool
}

// Compute derives Params from the outer surface size.
//
// The tilt is arccos(innerWidth / diagonal). On mobile the chart is not
// tilted: the diagonal equals the inner width, the inner height equals
// the inner width and the angle is exactly zero.
func Compute(size Size, rules Rules) (Params, error) {
	if !(size.Width > 0) || !(size.Height > 0) || math.IsInf(size.Width, 0) || math.IsInf(size.Height, 0) {
		return Params{}, fmt.Errorf("%w: %gx%g", ErrNotReady, size.Width, size.Height)
	}

	bp := rules.Classify(size.Width)
	prof, ok := rules.Profiles[bp]
	if !ok {
		return Params{}, fmt.Errorf("viewport: no profile for breakpoint %s", bp)
	}
	share := prof.WidthShare
	if share <= 0 || share > 1 {
		share = 1
	}

	pad := prof.Padding
	w := (size.Width - pad.Left - pad.Right) * share
	h := size.Height - pad.Top - pad.Bottom
	if bp == Mobile {
		h = w
	}
	if w <= 0 || h <= 0 {
		return Params{}, fmt.Errorf("%w: inner area %gx%g", ErrNotReady, w, h)
	}

	p := Params{
		Outer:         size,
		Breakpoint:    bp,
		Padding:       pad,
		InnerWidth:    w,
		InnerHeight:   h,
		RadiusRange:   prof.RadiusRange,
		LinkDistance:  prof.LinkDistance,
		Collision:     prof.Collision,
		LinksEnabled:  bp == DesktopLarge && prof.LinkDistance > 0,
		LabelsEnabled: bp != Mobile,
	}

	if bp == Mobile {
		p.Diagonal = w
	} else {
		p.Diagonal = math.Hypot(w, h)
	}
	// Guard against |w/d| drifting past 1 through rounding.
	p.AngleRad = math.Acos(math.Min(1, w/p.Diagonal))
	p.AngleDeg = p.AngleRad * 180 / math.Pi

	return p, nil
}

// Center returns the chart center in simulation space: the middle of the
// inner area. It splits labels into quadrants and centers the initial
// placement circle. Note that it sits left of the year axis midpoint on a
// tilted chart.
func (p Params) Center() (x, y float64) {
	return p.InnerWidth / 2, p.InnerHeight / 2
}

// Origin returns the rotation pivot of the chart group in surface space.
func (p Params) Origin() (x, y float64) {
	return p.Outer.Width - p.InnerWidth, p.InnerHeight / 2
}

// Translation returns the offset applied to the chart group after rotation.
func (p Params) Translation() (x, y float64) {
	if p.Breakpoint == Mobile {
		return p.Padding.Left, p.Padding.Top
	}
	return p.Outer.Width - p.Diagonal, p.Padding.Top
}
