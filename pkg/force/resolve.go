package force

import (
	"math"

	"github.com/ha1tch/f1-bubbles/pkg/geom"
)

// Resolve projects residual disc overlaps apart and clamps free bodies into
// Options.Bounds, sweeping until the deepest overlap is within Tolerance or
// ResolvePasses is spent. It returns the deepest overlap left behind.
//
// The relaxation alone leaves small overlaps when it runs out of frames or
// when x targets pile many discs into one column; this pass tightens the
// result without moving well-separated discs.
func (s *Simulation) Resolve() float64 {
	tol := s.opts.Tolerance
	for pass := 0; pass < s.opts.ResolvePasses; pass++ {
		worst := s.separate()
		s.clamp()
		if worst <= tol {
			break
		}
	}
	return s.MaxOverlap()
}

// separate runs one Gauss-Seidel sweep over all pairs and returns the
// deepest overlap it found.
func (s *Simulation) separate() float64 {
	worst := 0.0
	for i := range s.bodies {
		a := &s.bodies[i]
		for j := i + 1; j < len(s.bodies); j++ {
			b := &s.bodies[j]
			if a.Fixed && b.Fixed {
				continue
			}
			reach := a.Radius + b.Radius
			dx := a.X - b.X
			dy := a.Y - b.Y
			d := math.Hypot(dx, dy)
			overlap := reach - d
			if overlap <= 0 {
				continue
			}
			if overlap > worst {
				worst = overlap
			}

			if d == 0 {
				angle := s.rng.Float64() * 2 * math.Pi
				dx, dy, d = math.Cos(angle), math.Sin(angle), 1
			}
			ux, uy := dx/d, dy/d
			push := overlap + 1e-3

			ra2, rb2 := a.Radius*a.Radius, b.Radius*b.Radius
			wa := rb2 / (ra2 + rb2)
			switch {
			case a.Fixed:
				wa = 0
			case b.Fixed:
				wa = 1
			}
			a.X += ux * push * wa
			a.Y += uy * push * wa
			b.X -= ux * push * (1 - wa)
			b.Y -= uy * push * (1 - wa)
		}
	}
	return worst
}

func (s *Simulation) clamp() {
	r := s.opts.Bounds
	if r == (geom.Rect{}) {
		return
	}
	for i := range s.bodies {
		b := &s.bodies[i]
		if b.Fixed {
			continue
		}
		p := r.Clamp(geom.Point{X: b.X, Y: b.Y})
		b.X, b.Y = p.X, p.Y
	}
}

// MaxOverlap returns the deepest pairwise disc overlap at the current
// positions, ignoring pairs of fixed bodies.
func (s *Simulation) MaxOverlap() float64 {
	worst := 0.0
	for i := range s.bodies {
		for j := i + 1; j < len(s.bodies); j++ {
			a, b := s.bodies[i], s.bodies[j]
			if a.Fixed && b.Fixed {
				continue
			}
			d := math.Hypot(a.X-b.X, a.Y-b.Y)
			if o := a.Radius + b.Radius - d; o > worst {
				worst = o
			}
		}
	}
	return worst
}
