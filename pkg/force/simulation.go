// Package force implements the iterative force relaxation that positions
// the bubbles: attraction to per-body x targets and a shared y centerline,
// disc collision, and optional links pulling named pairs to a fixed
// distance.
//
// The integration scheme follows the usual velocity-Verlet-with-decay
// model: every step cools alpha, every force adds to body velocities
// scaled by alpha, and velocities decay before being applied.
package force

import (
	"context"
	"math"
	"math/rand"

	"github.com/ha1tch/f1-bubbles/pkg/geom"
)

// Body is one simulated disc. The simulation owns X, Y, VX and VY while it
// runs; callers read positions only from the Snapshot handed to OnSettle.
type Body struct {
	X, Y   float64
	VX, VY float64

	TargetX, TargetY float64
	Radius           float64
	Fixed            bool // pinned at (TargetX, TargetY)
}

// Link pulls two bodies towards Options.LinkDistance.
type Link struct {
	Source, Target int
}

// Options configures a simulation run.
type Options struct {
	StrengthX    float64 // x-attraction strength
	StrengthY    float64 // y-attraction strength
	Collision    float64 // collision strength, 0 disables
	LinkDistance float64 // target link length, 0 disables links
	Links        []Link

	AlphaMin      float64
	AlphaDecay    float64
	VelocityDecay float64

	SubSteps  int // extra steps run per frame
	MaxFrames int // frame budget before settling unconverged

	Center     geom.Point // initial placement circle center
	InitRadius float64    // initial placement circle radius

	// Post-settle constraint pass. Zero Bounds disables containment.
	Bounds        geom.Rect
	ResolvePasses int
	Tolerance     float64

	Rand *rand.Rand // nil uses a fixed seed

	OnFrame  func(frame int, alpha float64)
	OnSettle func(Snapshot)
}

// DefaultOptions returns the tuned defaults.
func DefaultOptions() Options {
	return Options{
		StrengthX:     1,
		StrengthY:     0.1,
		Collision:     1,
		AlphaMin:      0.001,
		AlphaDecay:    1 - math.Pow(0.001, 1.0/300),
		VelocityDecay: 0.4,
		SubSteps:      40,
		MaxFrames:     50,
		ResolvePasses: 300,
		Tolerance:     0.1,
	}
}

// Snapshot is the read-only result of a run.
type Snapshot struct {
	Positions  []geom.Point
	Frames     int
	Steps      int
	Alpha      float64
	Converged  bool    // alpha fell below AlphaMin within the frame budget
	MaxOverlap float64 // deepest remaining disc overlap after settling
}

// Simulation runs the relaxation over an arena of bodies.
type Simulation struct {
	bodies []Body
	opts   Options
	rng    *rand.Rand

	alpha  float64
	steps  int
	frames int

	linkStrength []float64
	linkBias     []float64
	settled      bool
}

// New creates a simulation over a private copy of bodies.
func New(bodies []Body, opts Options) *Simulation {
	def := DefaultOptions()
	if opts.AlphaMin <= 0 {
		opts.AlphaMin = def.AlphaMin
	}
	if opts.AlphaDecay <= 0 {
		opts.AlphaDecay = def.AlphaDecay
	}
	if opts.VelocityDecay <= 0 || opts.VelocityDecay >= 1 {
		opts.VelocityDecay = def.VelocityDecay
	}
	if opts.SubSteps < 0 {
		opts.SubSteps = 0
	}
	if opts.MaxFrames <= 0 {
		opts.MaxFrames = def.MaxFrames
	}
	if opts.ResolvePasses < 0 {
		opts.ResolvePasses = 0
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = def.Tolerance
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	s := &Simulation{
		bodies: append([]Body(nil), bodies...),
		opts:   opts,
		rng:    rng,
		alpha:  1,
	}
	s.prepareLinks()
	return s
}

// Len returns the number of bodies.
func (s *Simulation) Len() int { return len(s.bodies) }

// Alpha returns the current cooling parameter.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Initialize places free bodies on a circle of InitRadius around Center at
// random angles, and pins fixed bodies to their targets.
func (s *Simulation) Initialize() {
	c := s.opts.Center
	r := s.opts.InitRadius
	for i := range s.bodies {
		b := &s.bodies[i]
		b.VX, b.VY = 0, 0
		if b.Fixed {
			b.X, b.Y = b.TargetX, b.TargetY
			continue
		}
		angle := s.rng.Float64() * 2 * math.Pi
		b.X = c.X + r*math.Cos(angle)
		b.Y = c.Y + r*math.Sin(angle)
	}
	s.alpha = 1
	s.steps = 0
	s.frames = 0
	s.settled = false
}

// Step advances the simulation by one relaxation step.
func (s *Simulation) Step() {
	s.alpha += -s.alpha * s.opts.AlphaDecay

	s.applyX()
	s.applyY()
	if s.opts.LinkDistance > 0 && len(s.opts.Links) > 0 {
		s.applyLinks()
	}
	if s.opts.Collision > 0 {
		s.applyCollision()
	}

	keep := 1 - s.opts.VelocityDecay
	for i := range s.bodies {
		b := &s.bodies[i]
		if b.Fixed {
			b.X, b.Y = b.TargetX, b.TargetY
			b.VX, b.VY = 0, 0
			continue
		}
		b.VX *= keep
		b.VY *= keep
		b.X += b.VX
		b.Y += b.VY
	}
	s.steps++
}

// Run initializes the bodies and relaxes them frame by frame until alpha
// drops below AlphaMin or the frame budget is exhausted, then resolves any
// residual overlaps and fires OnSettle exactly once.
//
// Cancellation is checked between frames. A cancelled run returns the
// context error and never fires OnSettle.
func (s *Simulation) Run(ctx context.Context) (Snapshot, error) {
	s.Initialize()

	converged := false
	for s.frames < s.opts.MaxFrames {
		if err := ctx.Err(); err != nil {
			return Snapshot{}, err
		}

		for i := 0; i <= s.opts.SubSteps; i++ {
			s.Step()
			if s.alpha < s.opts.AlphaMin {
				break
			}
		}
		s.frames++

		if s.opts.OnFrame != nil {
			s.opts.OnFrame(s.frames, s.alpha)
		}
		if s.alpha < s.opts.AlphaMin {
			converged = true
			break
		}
	}

	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	overlap := s.Resolve()
	snap := s.snapshot(converged, overlap)

	if !s.settled {
		s.settled = true
		if s.opts.OnSettle != nil {
			s.opts.OnSettle(snap)
		}
	}
	return snap, nil
}

func (s *Simulation) snapshot(converged bool, overlap float64) Snapshot {
	pos := make([]geom.Point, len(s.bodies))
	for i, b := range s.bodies {
		pos[i] = geom.Point{X: b.X, Y: b.Y}
	}
	return Snapshot{
		Positions:  pos,
		Frames:     s.frames,
		Steps:      s.steps,
		Alpha:      s.alpha,
		Converged:  converged,
		MaxOverlap: overlap,
	}
}

func (s *Simulation) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-6
}
