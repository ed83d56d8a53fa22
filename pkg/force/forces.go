package force

import "math"

func (s *Simulation) applyX() {
	k := s.opts.StrengthX * s.alpha
	for i := range s.bodies {
		b := &s.bodies[i]
		if b.Fixed {
			continue
		}
		b.VX += (b.TargetX - b.X) * k
	}
}

func (s *Simulation) applyY() {
	k := s.opts.StrengthY * s.alpha
	for i := range s.bodies {
		b := &s.bodies[i]
		if b.Fixed {
			continue
		}
		b.VY += (b.TargetY - b.Y) * k
	}
}

// prepareLinks derives per-link strength and bias from endpoint degrees so
// that hubs are not yanked around by every neighbour.
func (s *Simulation) prepareLinks() {
	n := len(s.bodies)
	valid := s.opts.Links[:0:0]
	degree := make([]int, n)
	for _, l := range s.opts.Links {
		if l.Source < 0 || l.Source >= n || l.Target < 0 || l.Target >= n || l.Source == l.Target {
			continue
		}
		valid = append(valid, l)
		degree[l.Source]++
		degree[l.Target]++
	}
	s.opts.Links = valid

	s.linkStrength = make([]float64, len(valid))
	s.linkBias = make([]float64, len(valid))
	for i, l := range valid {
		ds, dt := degree[l.Source], degree[l.Target]
		s.linkStrength[i] = 1 / float64(min(ds, dt))
		s.linkBias[i] = float64(ds) / float64(ds+dt)
	}
}

func (s *Simulation) applyLinks() {
	dist := s.opts.LinkDistance
	for i, l := range s.opts.Links {
		src := &s.bodies[l.Source]
		tgt := &s.bodies[l.Target]

		x := tgt.X + tgt.VX - src.X - src.VX
		if x == 0 {
			x = s.jiggle()
		}
		y := tgt.Y + tgt.VY - src.Y - src.VY
		if y == 0 {
			y = s.jiggle()
		}
		d := math.Sqrt(x*x + y*y)
		f := (d - dist) / d * s.alpha * s.linkStrength[i]
		x *= f
		y *= f

		bias := s.linkBias[i]
		if !tgt.Fixed {
			tgt.VX -= x * bias
			tgt.VY -= y * bias
		}
		if !src.Fixed {
			src.VX += x * (1 - bias)
			src.VY += y * (1 - bias)
		}
	}
}

// applyCollision separates overlapping discs using their predicted
// positions (position + velocity). The correction is split by relative
// area; a fixed body never moves, so its partner takes the whole share.
func (s *Simulation) applyCollision() {
	strength := s.opts.Collision
	for i := range s.bodies {
		a := &s.bodies[i]
		ri := a.Radius
		ri2 := ri * ri
		xi := a.X + a.VX
		yi := a.Y + a.VY

		for j := i + 1; j < len(s.bodies); j++ {
			b := &s.bodies[j]
			if a.Fixed && b.Fixed {
				continue
			}
			rj := b.Radius
			r := ri + rj

			x := xi - b.X - b.VX
			y := yi - b.Y - b.VY
			l := x*x + y*y
			if l >= r*r {
				continue
			}
			if x == 0 {
				x = s.jiggle()
				l += x * x
			}
			if y == 0 {
				y = s.jiggle()
				l += y * y
			}
			l = math.Sqrt(l)
			l = (r - l) / l * strength
			x *= l
			y *= l

			share := rj * rj / (ri2 + rj*rj)
			switch {
			case a.Fixed:
				share = 0
			case b.Fixed:
				share = 1
			}
			a.VX += x * share
			a.VY += y * share
			b.VX -= x * (1 - share)
			b.VY -= y * (1 - share)
		}
	}
}
