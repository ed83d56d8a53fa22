package main

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/f1-bubbles/pkg/bubble"
	"github.com/ha1tch/f1-bubbles/pkg/geom"
	"github.com/ha1tch/f1-bubbles/pkg/label"
)

var (
	styleDefault = tcell.StyleDefault
	styleInk     = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleStatus  = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleTip     = tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack)
	styleTipHead = styleTip.Bold(true)
)

type cell struct{ X, Y int }

// cellCenter is the surface pixel at the middle of cell (x, y).
func cellCenter(x, y int) geom.Point {
	return geom.Point{X: (float64(x) + 0.5) * cellWidth, Y: (float64(y) + 0.5) * cellHeight}
}

// cellAt is the cell containing surface pixel p.
func cellAt(p geom.Point) cell {
	return cell{int(math.Floor(p.X / cellWidth)), int(math.Floor(p.Y / cellHeight))}
}

// discCells lists the cells whose centers fall inside the disc. A disc
// smaller than a cell still covers the cell holding its center.
func discCells(center geom.Point, radius float64) []cell {
	lo := cellAt(geom.Point{X: center.X - radius, Y: center.Y - radius})
	hi := cellAt(geom.Point{X: center.X + radius, Y: center.Y + radius})
	var out []cell
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			if cellCenter(x, y).Dist(center) <= radius {
				out = append(out, cell{x, y})
			}
		}
	}
	if len(out) == 0 {
		out = append(out, cellAt(center))
	}
	return out
}

// lineCells walks a segment in half-cell steps and returns the cells it
// crosses, without repeats.
func lineCells(a, b geom.Point) []cell {
	steps := int(math.Max(math.Abs(b.X-a.X)/(cellWidth/2), math.Abs(b.Y-a.Y)/(cellHeight/2))) + 1
	var out []cell
	seen := map[cell]bool{}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c := cellAt(geom.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t})
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// lineRune picks a box-drawing rune for a segment on screen.
func lineRune(a, b geom.Point) rune {
	dx, dy := math.Abs(b.X-a.X), math.Abs(b.Y-a.Y)
	switch {
	case dx < 0.5 && dy < 0.5:
		return '·'
	case dx/cellWidth >= dy/cellHeight:
		return '─'
	default:
		return '│'
	}
}

// textStart returns the first column of text anchored at col.
func textStart(col int, text string, anchor label.TextAnchor) int {
	if anchor == label.AnchorEnd {
		return col - runewidth.StringWidth(text)
	}
	return col
}

func (v *Viewer) draw() {
	v.mu.Lock()
	res, status, tip := v.result, v.status, v.tip
	mx, my := v.mouseX, v.mouseY
	v.mu.Unlock()

	s := v.screen
	s.Clear()
	w, h := s.Size()

	if res != nil {
		drawResult(s, res)
	}
	drawStatusBar(s, w, h, status)
	if tip != nil {
		drawTooltip(s, w, h, mx, my, *tip)
	}
}

func drawResult(s tcell.Screen, res *bubble.Result) {
	a := res.Axis
	drawSegment(s, res.Screen(a.Start()), res.Screen(a.End()), styleInk)

	for _, sh := range res.Shapes {
		center := res.Screen(sh.Center())
		if sh.IsAnchor() {
			c := cellAt(center)
			drawString(s, c.X-runewidth.StringWidth(sh.Display)/2, c.Y, sh.Display, styleInk.Bold(true))
			continue
		}
		style := styleDefault.Background(tcell.GetColor(sh.Color))
		for _, c := range discCells(center, sh.Radius) {
			s.SetContent(c.X, c.Y, ' ', nil, style)
		}
	}

	for _, pl := range res.Labels {
		for _, seg := range pl.Segments() {
			drawSegment(s, res.LabelScreen(pl, seg.Start()), res.LabelScreen(pl, seg.End()), styleInk)
		}
		for _, run := range pl.Runs {
			c := cellAt(res.LabelScreen(pl, geom.Point{X: run.X, Y: run.Y}))
			drawString(s, textStart(c.X, run.Text, pl.Anchor), c.Y, run.Text, styleInk)
		}
	}
}

func drawSegment(s tcell.Screen, a, b geom.Point, style tcell.Style) {
	r := lineRune(a, b)
	for _, c := range lineCells(a, b) {
		s.SetContent(c.X, c.Y, r, nil, style)
	}
}

func drawString(s tcell.Screen, x, y int, text string, style tcell.Style) int {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	return x
}

func drawStatusBar(s tcell.Screen, w, h int, status string) {
	y := h - 1
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, styleStatus)
	}
	drawString(s, 1, y, status, styleStatus)
	help := "q quit  r relayout"
	drawString(s, w-runewidth.StringWidth(help)-1, y, help, styleStatus)
}

// drawTooltip draws a box next to the pointer, flipped left or up when it
// would leave the screen.
func drawTooltip(s tcell.Screen, w, h, mx, my int, tip bubble.Tooltip) {
	lines := append([]string{tip.Title}, tip.Lines...)
	if tip.URL != "" {
		lines = append(lines, tip.URL)
	}
	width := 0
	for _, l := range lines {
		width = max(width, runewidth.StringWidth(l))
	}
	bw, bh := width+2, len(lines)

	x, y := mx+2, my+1
	if x+bw > w {
		x = mx - bw - 1
	}
	if y+bh > h-1 {
		y = h - 1 - bh
	}
	x, y = max(x, 0), max(y, 0)

	for i, l := range lines {
		style := styleTip
		if i == 0 {
			style = styleTipHead
		}
		for col := 0; col < bw; col++ {
			s.SetContent(x+col, y+i, ' ', nil, style)
		}
		drawString(s, x+1, y+i, l, style)
	}
}
