// Package render draws a finished layout as SVG or PNG.
//
// Both renderers consume a *bubble.Result and never run a layout
// themselves. Shapes, the axis and labels are stored in simulation space;
// the SVG renderer wraps them in a transformed group, the PNG renderer
// maps every point through the chart transform before drawing.
package render

import (
	"fmt"

	"github.com/ha1tch/f1-bubbles/pkg/bubble"
	"github.com/ha1tch/f1-bubbles/pkg/geom"
)

// Legend captions.
const (
	RadiusCaption = "Circle radius shows the number of races"
	ColorCaption  = "Circle color shows the number of world titles"
)

// legendDisc is one radius sample in surface coordinates.
type legendDisc struct {
	Center geom.Point
	Radius float64
	Text   string
	TextY  float64
}

// legendSwatch is one color sample in surface coordinates.
type legendSwatch struct {
	Box   geom.Rect
	Color string
	Text  string
	TextX float64
	TextY float64
}

type legendCaption struct {
	Pos  geom.Point
	Text string
}

type legendLayout struct {
	Discs    []legendDisc
	Swatches []legendSwatch
	Captions []legendCaption
}

const (
	legendGap         = 5
	swatchWidth       = 30
	swatchHeight      = 10
	swatchPitch       = 35
	legendColorOffset = 100
)

// layoutLegend places the legends in the bottom-left corner of the
// surface. Discs sit on a common baseline, each followed by a gap; the
// color row sits above the tallest disc.
func layoutLegend(res *bubble.Result) legendLayout {
	var out legendLayout
	left := res.Params.Padding.Left
	base := res.Params.InnerHeight

	tallest := 0.0
	prev := 0.0
	for _, d := range res.Legend.Radius {
		out.Discs = append(out.Discs, legendDisc{
			Center: geom.Point{X: left + d.Radius + prev, Y: base - d.Radius - 4},
			Radius: d.Radius,
			Text:   fmt.Sprint(d.Races),
			TextY:  base + 10,
		})
		prev += 2*d.Radius + legendGap
		if d.Radius > tallest {
			tallest = d.Radius
		}
	}
	top := base - 2*(tallest+2)

	for i, s := range res.Legend.Color {
		x := left + swatchPitch*float64(i)
		y := top - legendColorOffset
		out.Swatches = append(out.Swatches, legendSwatch{
			Box:   geom.Rect{MinX: x, MinY: y, MaxX: x + swatchWidth, MaxY: y + swatchHeight},
			Color: s.Color,
			Text:  fmt.Sprint(s.Titles),
			TextX: x + swatchWidth/2,
			TextY: top - 75,
		})
	}

	if len(out.Discs) > 0 {
		out.Captions = append(out.Captions, legendCaption{Pos: geom.Point{X: left, Y: top - 10}, Text: RadiusCaption})
	}
	if len(out.Swatches) > 0 {
		out.Captions = append(out.Captions, legendCaption{Pos: geom.Point{X: left, Y: top - 120}, Text: ColorCaption})
	}
	return out
}
