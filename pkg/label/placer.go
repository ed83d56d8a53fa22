package label

import (
	"github.com/ha1tch/f1-bubbles/pkg/geom"
)

// Options tunes label geometry.
type Options struct {
	LineHeight    float64 // vertical distance between text runs
	SideThreshold float64 // screen distance to the rightmost entity that switches to side labels
	TopWindow     float64 // obstruction search window for top-left labels
	BottomWindow  float64 // obstruction search window for bottom labels
}

// DefaultOptions returns the standard label geometry.
func DefaultOptions() Options {
	return Options{
		LineHeight:    11,
		SideThreshold: 150,
		TopWindow:     100,
		BottomWindow:  110,
	}
}

// Placer computes label placements over one settled snapshot.
type Placer struct {
	items    []Item
	screen   []geom.Point
	index    map[string]int
	center   geom.Point
	angleDeg float64
	opts     Options

	rightmost int
}

// NewPlacer prepares a placer. center is the chart center in simulation
// space, angleDeg the chart rotation in degrees, and tr maps simulation
// space to screen space.
func NewPlacer(items []Item, center geom.Point, angleDeg float64, tr geom.Transform, opts Options) *Placer {
	def := DefaultOptions()
	if opts.LineHeight <= 0 {
		opts.LineHeight = def.LineHeight
	}
	if opts.SideThreshold <= 0 {
		opts.SideThreshold = def.SideThreshold
	}
	if opts.TopWindow <= 0 {
		opts.TopWindow = def.TopWindow
	}
	if opts.BottomWindow <= 0 {
		opts.BottomWindow = def.BottomWindow
	}

	p := &Placer{
		items:    items,
		screen:   make([]geom.Point, len(items)),
		index:    make(map[string]int, len(items)),
		center:   center,
		angleDeg: angleDeg,
		opts:     opts,
	}
	for i, it := range items {
		p.screen[i] = tr.Apply(it.Pos)
		if _, dup := p.index[it.Name]; !dup {
			p.index[it.Name] = i
		}
		if p.screen[i].X > p.screen[p.rightmost].X {
			p.rightmost = i
		}
	}
	return p
}

// Place computes the placement for one request.
func (p *Placer) Place(req Request) (Placement, error) {
	cur, ok := p.index[req.Name]
	if !ok {
		return Placement{}, ErrTargetNotFound
	}

	pos := p.items[cur].Pos
	top := pos.Y < p.center.Y
	left := pos.X < p.center.X
	side := p.screen[p.rightmost].X-p.screen[cur].X < p.opts.SideThreshold

	var pl Placement
	switch {
	case top && left:
		pl = p.topLeft(cur)
	case top && side:
		pl = p.sideTop(cur)
	case top:
		pl = p.rightTop(cur)
	case left:
		pl = p.bottomLeft(cur)
	case side:
		pl = p.sideBottom(cur)
	default:
		pl = p.rightBottom(cur)
	}

	pl.Name = req.Name
	pl.Target = pos
	pl.Runs = splitRuns(req.Text, pl.TextPos, p.opts.LineHeight)
	pl.Rotation = Rotation{Degrees: p.angleDeg, Pivot: pos}
	return pl, nil
}

// PlaceAll places every request, skipping unknown targets.
func (p *Placer) PlaceAll(reqs []Request) ([]Placement, []Omission) {
	var placed []Placement
	var omitted []Omission
	for _, req := range reqs {
		pl, err := p.Place(req)
		if err != nil {
			omitted = append(omitted, Omission{Name: req.Name, Err: err})
			continue
		}
		placed = append(placed, pl)
	}
	return placed, omitted
}

// direction filters candidates by their screen x relative to the target.
type direction int

const (
	toRight direction = iota
	toLeft
)

func inWindow(dir direction, startX, x, window float64) bool {
	if dir == toRight {
		return x > startX && (window == 0 || x-startX < window)
	}
	return x < startX && (window == 0 || startX-x < window)
}

// highest returns the candidate with the smallest screen y in the given
// direction and window, or start itself when none qualifies. A zero window
// is unbounded.
func (p *Placer) highest(start int, window float64, dir direction) int {
	best := start
	sx := p.screen[start].X
	for i, s := range p.screen {
		if inWindow(dir, sx, s.X, window) && s.Y < p.screen[best].Y {
			best = i
		}
	}
	return best
}

// lowest is highest with the comparison flipped.
func (p *Placer) lowest(start int, window float64, dir direction) int {
	best := start
	sx := p.screen[start].X
	for i, s := range p.screen {
		if inWindow(dir, sx, s.X, window) && s.Y > p.screen[best].Y {
			best = i
		}
	}
	return best
}

func (p *Placer) topLeft(cur int) Placement {
	obs := p.highest(cur, p.opts.TopWindow, toRight)
	length := p.screen[cur].Y - p.screen[obs].Y + 20

	t := p.items[cur].Pos
	end := geom.Point{X: t.X, Y: t.Y - length}
	return Placement{
		Strategy:    TopLeft,
		Obstruction: p.items[obs].Name,
		Leader:      []geom.Segment{geom.SegmentOf(t, end)},
		Accent:      geom.Segment{X1: end.X - 80, Y1: end.Y, X2: end.X + 80, Y2: end.Y},
		Anchor:      AnchorStart,
		TextPos:     geom.Point{X: end.X - 80, Y: end.Y - 50},
	}
}

func (p *Placer) rightTop(cur int) Placement {
	obs := p.highest(cur, 0, toLeft)
	length := p.screen[cur].Y - p.screen[obs].Y + 30

	t := p.items[cur].Pos
	bend := geom.Point{X: t.X, Y: t.Y - length}
	end := geom.Point{X: bend.X - 50, Y: bend.Y}
	return Placement{
		Strategy:    RightTop,
		Obstruction: p.items[obs].Name,
		Leader:      []geom.Segment{geom.SegmentOf(t, bend), geom.SegmentOf(bend, end)},
		Accent:      geom.Segment{X1: end.X, Y1: end.Y - 21, X2: end.X, Y2: end.Y + 21},
		Anchor:      AnchorEnd,
		TextPos:     geom.Point{X: end.X - 5, Y: end.Y - 23},
	}
}

// sideTop runs horizontally past the rightmost entity first, then climbs
// above the highest entity to the right.
func (p *Placer) sideTop(cur int) Placement {
	obs := p.highest(cur, 0, toRight)
	across := p.screen[p.rightmost].X - p.screen[cur].X + 20
	up := p.screen[cur].Y - p.screen[obs].Y + 40

	t := p.items[cur].Pos
	bend := geom.Point{X: t.X + across, Y: t.Y}
	end := geom.Point{X: bend.X, Y: bend.Y - up}
	return Placement{
		Strategy:    SideTop,
		Obstruction: p.items[obs].Name,
		Leader:      []geom.Segment{geom.SegmentOf(t, bend), geom.SegmentOf(bend, end)},
		Accent:      geom.Segment{X1: end.X, Y1: end.Y - 25, X2: end.X, Y2: end.Y + 25},
		Anchor:      AnchorStart,
		TextPos:     geom.Point{X: end.X + 5, Y: end.Y - 25},
	}
}

func (p *Placer) bottomLeft(cur int) Placement {
	obs := p.lowest(cur, p.opts.BottomWindow, toRight)
	length := p.screen[obs].Y - p.screen[cur].Y + 40

	t := p.items[cur].Pos
	bend := geom.Point{X: t.X, Y: t.Y + length}
	end := geom.Point{X: bend.X + 50, Y: bend.Y}
	return Placement{
		Strategy:    BottomLeft,
		Obstruction: p.items[obs].Name,
		Leader:      []geom.Segment{geom.SegmentOf(t, bend), geom.SegmentOf(bend, end)},
		Accent:      geom.Segment{X1: end.X, Y1: end.Y - 21, X2: end.X, Y2: end.Y + 21},
		Anchor:      AnchorStart,
		TextPos:     geom.Point{X: end.X + 5, Y: end.Y - 23},
	}
}

func (p *Placer) rightBottom(cur int) Placement {
	obs := p.lowest(cur, p.opts.BottomWindow, toLeft)
	length := p.screen[obs].Y - p.screen[cur].Y + 40

	t := p.items[cur].Pos
	bend := geom.Point{X: t.X, Y: t.Y + length}
	end := geom.Point{X: bend.X - 50, Y: bend.Y}
	return Placement{
		Strategy:    RightBottom,
		Obstruction: p.items[obs].Name,
		Leader:      []geom.Segment{geom.SegmentOf(t, bend), geom.SegmentOf(bend, end)},
		Accent:      geom.Segment{X1: end.X, Y1: end.Y - 21, X2: end.X, Y2: end.Y + 21},
		Anchor:      AnchorEnd,
		TextPos:     geom.Point{X: end.X - 5, Y: end.Y - 23},
	}
}

func (p *Placer) sideBottom(cur int) Placement {
	across := p.screen[p.rightmost].X - p.screen[cur].X + 20

	t := p.items[cur].Pos
	end := geom.Point{X: t.X + across, Y: t.Y}
	return Placement{
		Strategy:    SideBottom,
		Obstruction: p.items[p.rightmost].Name,
		Leader:      []geom.Segment{geom.SegmentOf(t, end)},
		Accent:      geom.Segment{X1: end.X, Y1: end.Y - 25, X2: end.X, Y2: end.Y + 25},
		Anchor:      AnchorStart,
		TextPos:     geom.Point{X: end.X + 5, Y: end.Y - 25},
	}
}
