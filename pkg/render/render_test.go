package render

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"image/png"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/ha1tch/f1-bubbles/pkg/bubble"
	"github.com/ha1tch/f1-bubbles/pkg/config"
	"github.com/ha1tch/f1-bubbles/pkg/geom"
	"github.com/ha1tch/f1-bubbles/pkg/label"
	"github.com/ha1tch/f1-bubbles/pkg/pilot"
	"github.com/ha1tch/f1-bubbles/pkg/viewport"
)

func testPilots() []pilot.Pilot {
	return []pilot.Pilot{
		{Name: "Nino Farina", RacesCount: 33, Years: []int{1950, 1951, 1952, 1953}, Champion: []int{1950}},
		{Name: "Juan Fangio", RacesCount: 51, Years: []int{1950, 1951, 1953, 1954, 1955, 1956, 1957, 1958}, Champion: []int{1951, 1954, 1955, 1956, 1957}},
		{Name: "Ayrton Senna", RacesCount: 162, Years: []int{1984, 1994}, Champion: []int{1988, 1990, 1991}},
		{Name: "Michael Schumacher", RacesCount: 308, Years: []int{1991, 2012}, Champion: []int{1994, 1995, 2000, 2001, 2002, 2003, 2004}},
		{Name: "Rookie & Co", RacesCount: 1, Years: []int{1975}},
	}
}

func layout(t *testing.T, size viewport.Size, labels []label.Request) *bubble.Result {
	t.Helper()
	res, err := bubble.New(config.Default()).Layout(context.Background(), size, testPilots(), labels)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestSVGWellFormed(t *testing.T) {
	res := layout(t, viewport.Size{Width: 1400, Height: 700}, []label.Request{
		{Name: "Ayrton Senna", Text: "Three titles\nwith McLaren"},
	})
	if len(res.Labels) != 1 {
		t.Fatalf("expected one placed label, got %d", len(res.Labels))
	}

	var buf bytes.Buffer
	if err := SVG(&buf, res, DefaultSVGOptions()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		if _, err := dec.Token(); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatalf("invalid XML: %v", err)
		}
	}

	pilots := 0
	for _, s := range res.Shapes {
		if !s.IsAnchor() {
			pilots++
		}
	}
	if got, want := strings.Count(out, "<circle"), pilots+len(bubble.LegendRaces); got != want {
		t.Errorf("circles = %d, want %d", got, want)
	}
	for _, want := range []string{
		"Three titles", "with McLaren", ">1950<", RadiusCaption, ColorCaption,
		"rotate(-" + num(res.Params.AngleDeg) + ")",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG is missing %q", want)
		}
	}
	if strings.Contains(out, "Rookie") {
		t.Error("pilot names are only drawn by labels")
	}
}

func TestSVGHideLegend(t *testing.T) {
	res := layout(t, viewport.Size{Width: 1400, Height: 700}, nil)
	opts := DefaultSVGOptions()
	opts.HideLegend = true

	var buf bytes.Buffer
	if err := SVG(&buf, res, opts); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), RadiusCaption) {
		t.Error("legend drawn with HideLegend")
	}
}

func TestSVGNilResult(t *testing.T) {
	if err := SVG(io.Discard, nil, DefaultSVGOptions()); err == nil {
		t.Error("expected an error for a nil result")
	}
}

func TestChartTransformAttr(t *testing.T) {
	tr := geom.Transform{Angle: geom.Radians(-30), Pivot: geom.Point{X: 100, Y: 50}, Offset: geom.Point{X: 10, Y: 20}}
	got := chartTransformAttr(tr)
	want := "translate(110,70) rotate(-30) translate(-100,-50)"
	if got != want {
		t.Errorf("chartTransformAttr = %q, want %q", got, want)
	}
}

func TestPNGDrawsShapes(t *testing.T) {
	res := layout(t, viewport.Size{Width: 900, Height: 500}, nil)

	var buf bytes.Buffer
	opts := DefaultPNGOptions()
	opts.Supersample = 2
	if err := PNG(&buf, res, opts); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 900 || b.Dy() != 500 {
		t.Fatalf("image is %v, want 900x500", b)
	}

	biggest := res.Shapes[0]
	for _, s := range res.Shapes {
		if s.Radius > biggest.Radius {
			biggest = s
		}
	}
	p := res.Screen(biggest.Center())
	r, g, b, _ := img.At(int(p.X), int(p.Y)).RGBA()
	wr, wg, wb, _ := parseColor(biggest.Color).RGBA()
	for _, c := range [][2]uint32{{r, wr}, {g, wg}, {b, wb}} {
		if math.Abs(float64(c[0]>>8)-float64(c[1]>>8)) > 12 {
			t.Errorf("pixel at %s center = (%d,%d,%d), want fill %s", biggest.Name, r>>8, g>>8, b>>8, biggest.Color)
			break
		}
	}
}

func TestLabelPointCancelsRotation(t *testing.T) {
	res := layout(t, viewport.Size{Width: 1400, Height: 700}, []label.Request{{Name: "Juan Fangio", Text: "five titles"}})
	if len(res.Labels) != 1 {
		t.Fatalf("labels = %d", len(res.Labels))
	}
	pl := res.Labels[0]
	for _, seg := range pl.Leader {
		a := res.LabelScreen(pl, seg.Start())
		b := res.LabelScreen(pl, seg.End())
		switch {
		case seg.IsVertical():
			if math.Abs(a.X-b.X) > 1e-6 {
				t.Errorf("vertical leader %+v is not vertical on screen: %v -> %v", seg, a, b)
			}
		case seg.IsHorizontal():
			if math.Abs(a.Y-b.Y) > 1e-6 {
				t.Errorf("horizontal leader %+v is not horizontal on screen: %v -> %v", seg, a, b)
			}
		}
	}
}

func TestLegendLayout(t *testing.T) {
	res := layout(t, viewport.Size{Width: 1400, Height: 700}, nil)
	lg := layoutLegend(res)
	if len(lg.Discs) != len(bubble.LegendRaces) || len(lg.Swatches) != len(bubble.LegendTitles) {
		t.Fatalf("legend has %d discs and %d swatches", len(lg.Discs), len(lg.Swatches))
	}
	for i := 1; i < len(lg.Discs); i++ {
		prev, cur := lg.Discs[i-1], lg.Discs[i]
		if gap := (cur.Center.X - cur.Radius) - (prev.Center.X + prev.Radius); math.Abs(gap-legendGap) > 1e-9 {
			t.Errorf("gap between legend discs %d and %d = %v", i-1, i, gap)
		}
	}
	if lg.Swatches[0].Color != res.Legend.Color[0].Color {
		t.Errorf("first swatch color = %s", lg.Swatches[0].Color)
	}
}
