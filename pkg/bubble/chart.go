// Package bubble ties the layout pipeline together: viewport geometry,
// scales, the force simulation and label placement. It also provides the
// resize shell and hover handling used by interactive front ends.
package bubble

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/ha1tch/f1-bubbles/pkg/config"
	"github.com/ha1tch/f1-bubbles/pkg/force"
	"github.com/ha1tch/f1-bubbles/pkg/geom"
	"github.com/ha1tch/f1-bubbles/pkg/label"
	"github.com/ha1tch/f1-bubbles/pkg/pilot"
	"github.com/ha1tch/f1-bubbles/pkg/scale"
	"github.com/ha1tch/f1-bubbles/pkg/viewport"
)

// Chart lays out pilots for a given surface size.
type Chart struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *Metrics
	pairs   []pilot.Pair
	seed    int64
}

// Option configures a Chart.
type Option func(*Chart)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Chart) { c.logger = l }
}

// WithMetrics records pass statistics on m.
func WithMetrics(m *Metrics) Option {
	return func(c *Chart) { c.metrics = m }
}

// WithSeed overrides the configured random seed.
func WithSeed(seed int64) Option {
	return func(c *Chart) { c.seed = seed }
}

// WithPairs overrides the configured curated links.
func WithPairs(pairs []pilot.Pair) Option {
	return func(c *Chart) { c.pairs = pairs }
}

// New creates a chart from a validated configuration.
func New(cfg config.Config, opts ...Option) *Chart {
	c := &Chart{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		pairs:  cfg.Pairs(),
		seed:   cfg.Simulation.Seed,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Config returns the chart configuration.
func (c *Chart) Config() config.Config { return c.cfg }

// ChartTransform returns the mapping from simulation space to surface
// space for the given viewport.
func ChartTransform(p viewport.Params) geom.Transform {
	ox, oy := p.Origin()
	tx, ty := p.Translation()
	return geom.Transform{
		Angle:  -p.AngleRad,
		Pivot:  geom.Point{X: ox, Y: oy},
		Offset: geom.Point{X: tx, Y: ty},
	}
}

// Layout runs one full pass. A surface that is not ready yields an error
// wrapping viewport.ErrNotReady; a cancelled context yields ctx.Err().
// Invalid pilots, missing links and labels without a target are logged and
// reported in the Result, never fatal.
func (c *Chart) Layout(ctx context.Context, size viewport.Size, pilots []pilot.Pilot, labels []label.Request) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := c.logger.With("run", runID)

	params, err := viewport.Compute(size, c.cfg.Rules())
	if err != nil {
		if errors.Is(err, viewport.ErrNotReady) {
			log.Debug("surface not ready", "width", size.Width, "height", size.Height)
			c.metrics.RecordPass(OutcomeSkipped, time.Since(start))
		} else {
			c.metrics.RecordPass(OutcomeError, time.Since(start))
		}
		return nil, err
	}

	entities, rejected := pilot.BuildEntities(pilots, c.cfg.Scale.AnchorYears)
	for _, e := range rejected {
		log.Warn("skipping pilot", "err", e)
	}

	scales, err := scale.Build(entities, params, c.cfg.ScaleOptions())
	if err != nil {
		c.metrics.RecordPass(OutcomeError, time.Since(start))
		return nil, err
	}

	var links []pilot.Link
	var missing []pilot.Pair
	if params.LinksEnabled {
		links, missing = pilot.ResolveLinks(entities, c.pairs)
		for _, m := range missing {
			log.Warn("curated link skipped", "source", m[0], "target", m[1])
		}
	}

	opts := c.forceOptions(params, links)
	opts.OnFrame = func(frame int, alpha float64) {
		log.Debug("frame", "n", frame, "alpha", alpha)
	}

	var res *Result
	opts.OnSettle = func(snap force.Snapshot) {
		res = c.settle(snap, params, entities, scales, links, labels)
	}

	log.Debug("layout started",
		"breakpoint", params.Breakpoint,
		"entities", len(entities),
		"links", len(links),
		"diagonal", params.Diagonal)

	snap, err := force.New(bodies(entities, scales, params), opts).Run(ctx)
	if err != nil {
		log.Debug("layout cancelled", "err", err)
		c.metrics.RecordPass(OutcomeCancelled, time.Since(start))
		return nil, err
	}

	res.RunID = runID
	res.MissingLinks = missing
	for _, o := range res.Omitted {
		log.Warn("label skipped", "target", o, "err", label.ErrTargetNotFound)
	}
	if !snap.Converged {
		log.Info("layout settled before converging", "frames", snap.Frames, "alpha", snap.Alpha)
	}

	c.metrics.RecordSettle(res)
	c.metrics.RecordPass(OutcomeOK, time.Since(start))
	log.Debug("layout settled", "frames", snap.Frames, "steps", snap.Steps, "overlap", snap.MaxOverlap,
		"elapsed", time.Since(start))

	return res, nil
}

func (c *Chart) forceOptions(params viewport.Params, links []pilot.Link) force.Options {
	opts := c.cfg.ForceOptions()
	cx, cy := params.Center()
	opts.Center = geom.Point{X: cx, Y: cy}
	opts.InitRadius = params.InnerWidth / 2
	opts.Collision = params.Collision
	opts.Bounds = geom.Rect{MaxX: params.Diagonal, MaxY: params.InnerHeight}
	opts.Rand = rand.New(rand.NewSource(c.seed))

	if params.LinksEnabled && len(links) > 0 {
		opts.LinkDistance = params.LinkDistance
		opts.Links = make([]force.Link, len(links))
		for i, l := range links {
			opts.Links[i] = force.Link{Source: l.Source, Target: l.Target}
		}
	}
	return opts
}

func bodies(entities []pilot.Entity, scales scale.Set, params viewport.Params) []force.Body {
	out := make([]force.Body, len(entities))
	for i, e := range entities {
		out[i] = force.Body{
			TargetX: scales.TargetX(e),
			TargetY: params.InnerHeight / 2,
			Radius:  scales.Disc(e),
			Fixed:   e.IsAnchor(),
		}
	}
	return out
}

func legendFor(scales scale.Set) Legend {
	var lg Legend
	for _, n := range LegendRaces {
		lg.Radius = append(lg.Radius, LegendDisc{Races: n, Radius: scale.DiscRadius(scales.Radius, float64(n))})
	}
	for _, n := range LegendTitles {
		lg.Color = append(lg.Color, LegendSwatch{Titles: n, Color: scales.Color.Hex(n)})
	}
	return lg
}

// settle turns a snapshot into the pass result and places labels.
func (c *Chart) settle(snap force.Snapshot, params viewport.Params, entities []pilot.Entity,
	scales scale.Set, links []pilot.Link, labels []label.Request) *Result {

	res := &Result{
		Params:     params,
		Transform:  ChartTransform(params),
		Shapes:     make([]Shape, len(entities)),
		Axis:       geom.Segment{X1: 0, Y1: params.InnerHeight / 2, X2: params.Diagonal, Y2: params.InnerHeight / 2},
		Legend:     legendFor(scales),
		Frames:     snap.Frames,
		Converged:  snap.Converged,
		MaxOverlap: snap.MaxOverlap,
	}

	items := make([]label.Item, len(entities))
	for i, e := range entities {
		p := snap.Positions[i]
		s := Shape{
			Name:    e.ID,
			Display: e.Name,
			Kind:    e.Kind,
			X:       p.X,
			Y:       p.Y,
			Radius:  scales.Disc(e),
			Color:   scales.Fill(e),
			Races:   e.RacesCount,
			Years:   e.Years,
			Titles:  e.Champion,
		}
		if e.Pilot != nil {
			s.URL = e.Pilot.URL
		}
		res.Shapes[i] = s
		items[i] = label.Item{Name: e.ID, Pos: p}
	}

	for _, l := range links {
		res.Links = append(res.Links, Link{Source: entities[l.Source].ID, Target: entities[l.Target].ID})
	}

	if !params.LabelsEnabled || len(labels) == 0 {
		return res
	}

	cx, cy := params.Center()
	placer := label.NewPlacer(items, geom.Point{X: cx, Y: cy}, params.AngleDeg, res.Transform, c.cfg.LabelOptions())
	placed, omitted := placer.PlaceAll(labels)
	res.Labels = placed
	for _, o := range omitted {
		res.Omitted = append(res.Omitted, o.Name)
	}
	return res
}
