package bubble

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ha1tch/f1-bubbles/pkg/config"
	"github.com/ha1tch/f1-bubbles/pkg/geom"
	"github.com/ha1tch/f1-bubbles/pkg/label"
	"github.com/ha1tch/f1-bubbles/pkg/pilot"
	"github.com/ha1tch/f1-bubbles/pkg/scale"
	"github.com/ha1tch/f1-bubbles/pkg/viewport"
)

var desktopSize = viewport.Size{Width: 1400, Height: 700}

func grid(n int) []pilot.Pilot {
	out := make([]pilot.Pilot, n)
	for i := range out {
		year := 1950 + (i*7)%70
		out[i] = pilot.Pilot{
			Name:       "Pilot " + string(rune('A'+i%26)) + string(rune('a'+i/26)),
			RacesCount: 1 + (i*37)%250,
			Years:      []int{year, year + 1},
		}
		if i%9 == 0 {
			out[i].Champion = []int{year}
		}
	}
	return out
}

func TestLayoutSingleRookie(t *testing.T) {
	chart := New(config.Default())
	res, err := chart.Layout(context.Background(), desktopSize, []pilot.Pilot{
		{Name: "Rookie", RacesCount: 1, Years: []int{1960}},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Shapes) != 5 {
		t.Fatalf("got %d shapes, want 4 anchors + 1 pilot", len(res.Shapes))
	}
	rookie, ok := res.Find("Rookie")
	if !ok {
		t.Fatal("rookie missing from result")
	}

	target := (1960.0 - 1938) / (2025 - 1938) * res.Params.Diagonal
	if drift := rookie.Radius + 33; math.Abs(rookie.X-target) > drift {
		t.Errorf("rookie x = %.1f, want within %.0f of %.1f", rookie.X, drift, target)
	}
	if rookie.Color != scale.DefaultNeutral {
		t.Errorf("rookie color = %s, want neutral %s", rookie.Color, scale.DefaultNeutral)
	}
	if !res.Converged {
		t.Error("single pilot layout did not converge")
	}
	if res.RunID == "" {
		t.Error("missing run ID")
	}
}

func TestLayoutNoOverlap(t *testing.T) {
	res, err := New(config.Default()).Layout(context.Background(), desktopSize, grid(80), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Shapes) != 84 {
		t.Fatalf("got %d shapes", len(res.Shapes))
	}
	for i, a := range res.Shapes {
		if a.X < 0 || a.X > res.Params.Diagonal || a.Y < 0 || a.Y > res.Params.InnerHeight {
			t.Errorf("%s at (%.1f, %.1f) outside the chart", a.Name, a.X, a.Y)
		}
		for _, b := range res.Shapes[i+1:] {
			if a.IsAnchor() && b.IsAnchor() {
				continue
			}
			if d := a.Center().Dist(b.Center()); d < a.Radius+b.Radius-0.5 {
				t.Errorf("%s and %s overlap: %.2f < %.2f", a.Name, b.Name, d, a.Radius+b.Radius)
			}
		}
	}
}

func TestLayoutLinksAndLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	pilots := grid(10)
	chart := New(config.Default(),
		WithMetrics(m),
		WithPairs([]pilot.Pair{{pilots[0].Name, pilots[1].Name}, {pilots[0].Name, "Nobody"}}),
	)
	labels := []label.Request{
		{Name: pilots[2].Name, Text: "a label"},
		{Name: "Ghost", Text: "never placed"},
	}

	res, err := chart.Layout(context.Background(), desktopSize, pilots, labels)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Links) != 1 || res.Links[0].Source != pilots[0].Name {
		t.Errorf("links = %+v", res.Links)
	}
	if len(res.MissingLinks) != 1 || res.MissingLinks[0][1] != "Nobody" {
		t.Errorf("missing links = %+v", res.MissingLinks)
	}
	if len(res.Shapes) != 14 {
		t.Errorf("missing link changed the entity count: %d shapes", len(res.Shapes))
	}
	if len(res.Labels) != 1 || res.Labels[0].Name != pilots[2].Name {
		t.Errorf("labels = %+v", res.Labels)
	}
	if len(res.Omitted) != 1 || res.Omitted[0] != "Ghost" {
		t.Errorf("omitted = %v", res.Omitted)
	}

	if got := testutil.ToFloat64(m.PassesTotal.WithLabelValues(OutcomeOK)); got != 1 {
		t.Errorf("ok passes = %v", got)
	}
	if got := testutil.ToFloat64(m.LabelsOmitted); got != 1 {
		t.Errorf("labels omitted = %v", got)
	}
	if got := testutil.ToFloat64(m.LinksMissing); got != 1 {
		t.Errorf("links missing = %v", got)
	}
}

func TestLayoutMobile(t *testing.T) {
	pilots := grid(10)
	chart := New(config.Default(), WithPairs([]pilot.Pair{{pilots[0].Name, pilots[1].Name}}))
	res, err := chart.Layout(context.Background(), viewport.Size{Width: 500, Height: 900}, pilots,
		[]label.Request{{Name: pilots[0].Name, Text: "hidden"}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Params.Breakpoint != viewport.Mobile {
		t.Fatalf("breakpoint = %v", res.Params.Breakpoint)
	}
	if len(res.Labels) != 0 || len(res.Omitted) != 0 {
		t.Errorf("mobile produced labels %+v, omitted %v", res.Labels, res.Omitted)
	}
	if len(res.Links) != 0 {
		t.Errorf("mobile resolved links %+v", res.Links)
	}
	if res.Transform.Angle != 0 {
		t.Errorf("mobile transform angle = %v", res.Transform.Angle)
	}
}

func TestLayoutNotReady(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	chart := New(config.Default(), WithMetrics(m))

	for _, size := range []viewport.Size{{}, {Width: 1400, Height: 0}, {Width: math.NaN(), Height: 700}} {
		if _, err := chart.Layout(context.Background(), size, grid(3), nil); !errors.Is(err, viewport.ErrNotReady) {
			t.Errorf("Layout(%v) = %v, want ErrNotReady", size, err)
		}
	}
	if got := testutil.ToFloat64(m.PassesTotal.WithLabelValues(OutcomeSkipped)); got != 3 {
		t.Errorf("skipped passes = %v, want 3", got)
	}
}

func TestLayoutCancelled(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(config.Default(), WithMetrics(m)).Layout(ctx, desktopSize, grid(5), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if got := testutil.ToFloat64(m.PassesTotal.WithLabelValues(OutcomeCancelled)); got != 1 {
		t.Errorf("cancelled passes = %v", got)
	}
}

func TestLayoutDeterministic(t *testing.T) {
	pilots := grid(20)
	a, err := New(config.Default(), WithSeed(7)).Layout(context.Background(), desktopSize, pilots, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(config.Default(), WithSeed(7)).Layout(context.Background(), desktopSize, pilots, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Shapes {
		if a.Shapes[i].X != b.Shapes[i].X || a.Shapes[i].Y != b.Shapes[i].Y {
			t.Fatalf("shape %s differs between runs with the same seed", a.Shapes[i].Name)
		}
	}
	if a.RunID == b.RunID {
		t.Error("run IDs should be unique per pass")
	}
}

func TestHitTest(t *testing.T) {
	res, err := New(config.Default()).Layout(context.Background(), desktopSize, grid(5), nil)
	if err != nil {
		t.Fatal(err)
	}
	want := res.Shapes[len(res.Shapes)-1]
	got, ok := res.HitTest(res.Screen(want.Center()))
	if !ok || got.Name != want.Name {
		t.Errorf("HitTest at %s center = %v, %v", want.Name, got.Name, ok)
	}
	if s, ok := res.HitTest(geom.Point{X: -1000, Y: -1000}); ok {
		t.Errorf("HitTest outside the chart returned %s", s.Name)
	}
}

func TestLayoutLegend(t *testing.T) {
	res, err := New(config.Default()).Layout(context.Background(), desktopSize, grid(30), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Legend.Radius) != len(LegendRaces) || len(res.Legend.Color) != len(LegendTitles) {
		t.Fatalf("legend = %+v", res.Legend)
	}
	for i := 1; i < len(res.Legend.Radius); i++ {
		if res.Legend.Radius[i].Radius > res.Legend.Radius[i-1].Radius {
			t.Errorf("legend radius grows from %d to %d races", res.Legend.Radius[i-1].Races, res.Legend.Radius[i].Races)
		}
	}
	if c := res.Legend.Color[0].Color; c != scale.DefaultNeutral {
		t.Errorf("zero titles swatch = %s, want neutral", c)
	}
}
