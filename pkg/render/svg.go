package render

import (
	"fmt"
	"io"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"github.com/ha1tch/f1-bubbles/pkg/bubble"
	"github.com/ha1tch/f1-bubbles/pkg/geom"
)

// SVGOptions controls SVG rendering.
type SVGOptions struct {
	Title      string // drawn top-left when set
	FontSize   int    // label and legend text
	TickSize   int    // year ticks on the axis
	TitleSize  int    // 0 = FontSize + 4
	HideLegend bool
	Background string // empty leaves the canvas transparent
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		FontSize:   11,
		TickSize:   10,
		Background: "#ffffff",
	}
}

// Colors shared by both renderers.
const (
	inkColor    = "#333333"
	axisColor   = "#999999"
	strokeColor = "#ffffff"
)

// SVG writes the result as a standalone SVG document sized to the surface.
func SVG(w io.Writer, res *bubble.Result, opts SVGOptions) error {
	if res == nil {
		return fmt.Errorf("render: nil result")
	}
	if opts.FontSize == 0 {
		opts.FontSize = 11
	}
	if opts.TickSize == 0 {
		opts.TickSize = 10
	}
	if opts.TitleSize == 0 {
		opts.TitleSize = opts.FontSize + 4
	}

	width, height := px(res.Params.Outer.Width), px(res.Params.Outer.Height)
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height)

	if opts.Background != "" {
		canvas.Rect(0, 0, width, height, "fill:"+opts.Background)
	}
	if opts.Title != "" {
		canvas.Text(px(res.Params.Padding.Left), opts.TitleSize+4, opts.Title,
			fmt.Sprintf("font-family:sans-serif;font-size:%dpx;font-weight:bold;fill:%s", opts.TitleSize, inkColor))
	}

	canvas.Gtransform(chartTransformAttr(res.Transform))
	writeAxis(canvas, res)
	writeShapes(canvas, res)
	writeTicks(canvas, res, opts)
	writeLabels(canvas, res, opts)
	canvas.Gend()

	if !opts.HideLegend {
		writeLegend(canvas, layoutLegend(res), opts)
	}

	canvas.End()
	return ew.err
}

// chartTransformAttr expresses a geom.Transform as an SVG transform list.
// The list is applied right to left: move the pivot to the origin, rotate,
// then move to the pivot plus the offset.
func chartTransformAttr(t geom.Transform) string {
	return fmt.Sprintf("translate(%s,%s) rotate(%s) translate(%s,%s)",
		num(t.Offset.X+t.Pivot.X), num(t.Offset.Y+t.Pivot.Y),
		num(geom.Degrees(t.Angle)),
		num(-t.Pivot.X), num(-t.Pivot.Y))
}

func writeAxis(canvas *svg.SVG, res *bubble.Result) {
	a := res.Axis
	canvas.Line(px(a.X1), px(a.Y1), px(a.X2), px(a.Y2),
		fmt.Sprintf("stroke:%s;stroke-width:1", axisColor), `class="axis"`)
}

func writeShapes(canvas *svg.SVG, res *bubble.Result) {
	canvas.Gid("bubbles")
	for _, s := range res.Shapes {
		if s.IsAnchor() {
			continue
		}
		canvas.Circle(px(s.X), px(s.Y), px(s.Radius),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:2", s.Color, strokeColor))
	}
	canvas.Gend()
}

// writeTicks draws the year anchors as text, rotated back upright about
// their own position.
func writeTicks(canvas *svg.SVG, res *bubble.Result, opts SVGOptions) {
	deg := num(res.Params.AngleDeg)
	for _, s := range res.Shapes {
		if !s.IsAnchor() {
			continue
		}
		x, y := px(s.X), px(s.Y)
		canvas.Text(x, y, s.Display,
			fmt.Sprintf(`transform="rotate(%s %d %d) translate(0,5)"`, deg, x, y),
			fmt.Sprintf("font-family:sans-serif;font-size:%dpx;text-anchor:middle;fill:%s", opts.TickSize, inkColor))
	}
}

func writeLabels(canvas *svg.SVG, res *bubble.Result, opts SVGOptions) {
	for _, p := range res.Labels {
		canvas.Gtransform(fmt.Sprintf("rotate(%s %s %s)", num(p.Rotation.Degrees), num(p.Rotation.Pivot.X), num(p.Rotation.Pivot.Y)))
		for _, seg := range p.Leader {
			canvas.Line(px(seg.X1), px(seg.Y1), px(seg.X2), px(seg.Y2),
				fmt.Sprintf("stroke:%s;stroke-width:1", inkColor))
		}
		a := p.Accent
		canvas.Line(px(a.X1), px(a.Y1), px(a.X2), px(a.Y2),
			fmt.Sprintf("stroke:%s;stroke-width:3", inkColor))
		style := fmt.Sprintf("font-family:sans-serif;font-size:%dpx;text-anchor:%s;fill:%s", opts.FontSize, p.Anchor, inkColor)
		for _, run := range p.Runs {
			canvas.Text(px(run.X), px(run.Y), run.Text, style)
		}
		canvas.Gend()
	}
}

func writeLegend(canvas *svg.SVG, lg legendLayout, opts SVGOptions) {
	canvas.Gid("legend")
	text := fmt.Sprintf("font-family:sans-serif;font-size:%dpx;fill:%s", opts.FontSize, inkColor)
	centered := text + ";text-anchor:middle"

	for _, d := range lg.Discs {
		canvas.Circle(px(d.Center.X), px(d.Center.Y), px(d.Radius), "fill:"+bubbleLegendColor)
		canvas.Text(px(d.Center.X), px(d.TextY), d.Text, centered)
	}
	for _, s := range lg.Swatches {
		canvas.Rect(px(s.Box.MinX), px(s.Box.MinY), px(s.Box.Width()), px(s.Box.Height()), "fill:"+s.Color)
		canvas.Text(px(s.TextX), px(s.TextY), s.Text, centered)
	}
	for _, c := range lg.Captions {
		canvas.Text(px(c.Pos.X), px(c.Pos.Y), c.Text, text)
	}
	canvas.Gend()
}

// bubbleLegendColor fills the radius samples.
const bubbleLegendColor = "#51a7ca"

func px(v float64) int {
	return int(math.Round(v))
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// errWriter remembers the first write error; svgo ignores them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
