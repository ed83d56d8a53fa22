package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/f1-bubbles/pkg/bubble"
	"github.com/ha1tch/f1-bubbles/pkg/geom"
	"github.com/ha1tch/f1-bubbles/pkg/label"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Supersample int // render at this multiple, then downscale
	FontSize    int
	TickSize    int
	HideLegend  bool
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Supersample: 4,
		FontSize:    11,
		TickSize:    10,
	}
}

var (
	colorWhite = color.RGBA{255, 255, 255, 255}
	colorInk   = color.RGBA{51, 51, 51, 255}    // #333
	colorAxis  = color.RGBA{153, 153, 153, 255} // #999
)

// renderContext holds the large canvas and the supersampling factor.
// Everything passed to the draw helpers is in surface pixels; the helpers
// scale to the canvas.
type renderContext struct {
	img   *image.RGBA
	scale float64
	text  font.Face
	ticks font.Face
}

func newRenderContext(img *image.RGBA, scale int, opts PNGOptions) (*renderContext, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("render: parse font: %w", err)
	}
	face := func(size int) (font.Face, error) {
		return opentype.NewFace(fnt, &opentype.FaceOptions{
			Size:    float64(size * scale),
			DPI:     72,
			Hinting: font.HintingNone,
		})
	}
	text, err := face(opts.FontSize)
	if err != nil {
		return nil, fmt.Errorf("render: text face: %w", err)
	}
	ticks, err := face(opts.TickSize)
	if err != nil {
		return nil, fmt.Errorf("render: tick face: %w", err)
	}
	return &renderContext{img: img, scale: float64(scale), text: text, ticks: ticks}, nil
}

// PNG writes the result as a PNG image sized to the surface.
// The image is drawn at Supersample times the size and downscaled with
// Catmull-Rom for smooth edges.
func PNG(w io.Writer, res *bubble.Result, opts PNGOptions) error {
	img, err := Image(res, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Image renders the result into an RGBA image sized to the surface.
func Image(res *bubble.Result, opts PNGOptions) (*image.RGBA, error) {
	if res == nil {
		return nil, fmt.Errorf("render: nil result")
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 4
	}
	if opts.FontSize == 0 {
		opts.FontSize = 11
	}
	if opts.TickSize == 0 {
		opts.TickSize = 10
	}

	width, height := px(res.Params.Outer.Width), px(res.Params.Outer.Height)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: empty surface %dx%d", width, height)
	}

	scale := opts.Supersample
	large := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
	draw.Draw(large, large.Bounds(), image.NewUniform(colorWhite), image.Point{}, draw.Src)

	ctx, err := newRenderContext(large, scale, opts)
	if err != nil {
		return nil, err
	}
	drawChart(ctx, res)
	if !opts.HideLegend {
		drawLegend(ctx, layoutLegend(res))
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(out, out.Bounds(), large, large.Bounds(), draw.Over, nil)
	return out, nil
}

func drawChart(ctx *renderContext, res *bubble.Result) {
	tr := res.Transform

	a := res.Axis
	drawLine(ctx, tr.Apply(a.Start()), tr.Apply(a.End()), 1, colorAxis)

	for _, s := range res.Shapes {
		if s.IsAnchor() {
			continue
		}
		drawDisc(ctx, tr.Apply(s.Center()), s.Radius, parseColor(s.Color), colorWhite, 2)
	}

	// Year ticks stay upright: only their position is transformed.
	for _, s := range res.Shapes {
		if !s.IsAnchor() {
			continue
		}
		p := tr.Apply(s.Center())
		drawText(ctx, ctx.ticks, geom.Point{X: p.X, Y: p.Y + 5}, s.Display, label.AnchorStart, true, colorInk)
	}

	for _, p := range res.Labels {
		for _, seg := range p.Leader {
			drawLine(ctx, res.LabelScreen(p, seg.Start()), res.LabelScreen(p, seg.End()), 1, colorInk)
		}
		drawLine(ctx, res.LabelScreen(p, p.Accent.Start()), res.LabelScreen(p, p.Accent.End()), 3, colorInk)
		for _, run := range p.Runs {
			pos := res.LabelScreen(p, geom.Point{X: run.X, Y: run.Y})
			drawText(ctx, ctx.text, pos, run.Text, p.Anchor, false, colorInk)
		}
	}
}

func drawLegend(ctx *renderContext, lg legendLayout) {
	fill := parseColor(bubbleLegendColor)
	for _, d := range lg.Discs {
		drawDisc(ctx, d.Center, d.Radius, fill, nil, 0)
		drawText(ctx, ctx.text, geom.Point{X: d.Center.X, Y: d.TextY}, d.Text, label.AnchorStart, true, colorInk)
	}
	for _, s := range lg.Swatches {
		r := image.Rect(
			int(s.Box.MinX*ctx.scale), int(s.Box.MinY*ctx.scale),
			int(s.Box.MaxX*ctx.scale), int(s.Box.MaxY*ctx.scale))
		draw.Draw(ctx.img, r, image.NewUniform(parseColor(s.Color)), image.Point{}, draw.Src)
		drawText(ctx, ctx.text, geom.Point{X: s.TextX, Y: s.TextY}, s.Text, label.AnchorStart, true, colorInk)
	}
	for _, c := range lg.Captions {
		drawText(ctx, ctx.text, c.Pos, c.Text, label.AnchorStart, false, colorInk)
	}
}

// drawDisc fills a circle by scanlines and strokes its edge with the given
// width in surface pixels. A nil stroke skips the outline.
func drawDisc(ctx *renderContext, center geom.Point, radius float64, fill, stroke color.Color, width float64) {
	img := ctx.img
	cx, cy, r := center.X*ctx.scale, center.Y*ctx.scale, radius*ctx.scale

	for dy := -r; dy <= r; dy++ {
		xExtent := math.Sqrt(math.Max(0, r*r-dy*dy))
		for dx := -xExtent; dx <= xExtent; dx++ {
			img.Set(int(cx+dx), int(cy+dy), fill)
		}
	}

	if stroke == nil || width <= 0 {
		return
	}
	half := width * ctx.scale / 2
	step := 0.5 / math.Max(r, 1)
	for angle := 0.0; angle < 2*math.Pi; angle += step {
		nx, ny := math.Cos(angle), math.Sin(angle)
		for t := -half; t <= half; t += 0.5 {
			img.Set(int(cx+nx*(r+t)), int(cy+ny*(r+t)), stroke)
		}
	}
}

// drawLine draws a straight line of the given width in surface pixels.
func drawLine(ctx *renderContext, from, to geom.Point, width float64, c color.Color) {
	img := ctx.img
	x1, y1 := from.X*ctx.scale, from.Y*ctx.scale
	dx, dy := (to.X-from.X)*ctx.scale, (to.Y-from.Y)*ctx.scale
	half := width * ctx.scale / 2

	dist := math.Hypot(dx, dy)
	if dist < 1 {
		for ty := -half; ty <= half; ty++ {
			for tx := -half; tx <= half; tx++ {
				img.Set(int(x1+tx), int(y1+ty), c)
			}
		}
		return
	}

	perpX, perpY := -dy/dist, dx/dist
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	for i := 0.0; i <= steps; i++ {
		t := i / steps
		lx, ly := x1+dx*t, y1+dy*t
		for offset := -half; offset <= half; offset += 0.5 {
			img.Set(int(lx+perpX*offset), int(ly+perpY*offset), c)
		}
	}
}

// drawText draws text with its baseline at pos. Centered text ignores the
// anchor; otherwise AnchorEnd right-aligns on pos.X.
func drawText(ctx *renderContext, face font.Face, pos geom.Point, text string, anchor label.TextAnchor, centered bool, c color.Color) {
	x := pos.X * ctx.scale
	width := float64(font.MeasureString(face, text)) / 64
	switch {
	case centered:
		x -= width / 2
	case anchor == label.AnchorEnd:
		x -= width
	}
	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(pos.Y * ctx.scale * 64)},
	}
	d.DrawString(text)
}

// parseColor converts #rrggbb; unparsable input draws in ink.
func parseColor(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorInk
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}
}
