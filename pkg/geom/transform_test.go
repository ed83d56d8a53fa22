package geom

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func near(a, b Point, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

func TestTransformApply(t *testing.T) {
	tests := []struct {
		name string
		tr   Transform
		in   Point
		want Point
	}{
		{
			name: "identity",
			tr:   Transform{},
			in:   Point{12, -3},
			want: Point{12, -3},
		},
		{
			name: "translate only",
			tr:   Transform{Offset: Point{10, 20}},
			in:   Point{1, 2},
			want: Point{11, 22},
		},
		{
			name: "quarter turn about pivot",
			tr:   Transform{Angle: math.Pi / 2, Pivot: Point{100, 100}},
			in:   Point{110, 100},
			want: Point{100, 110},
		},
		{
			name: "pivot is fixed point of rotation",
			tr:   Transform{Angle: 0.7, Pivot: Point{50, 25}, Offset: Point{5, -5}},
			in:   Point{50, 25},
			want: Point{55, 20},
		},
		{
			name: "negative angle",
			tr:   Transform{Angle: -math.Pi / 2, Pivot: Point{0, 0}},
			in:   Point{10, 0},
			want: Point{0, -10},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.tr.Apply(tc.in)
			if !near(got, tc.want, 1e-9) {
				t.Errorf("Apply(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestTransformIsPure(t *testing.T) {
	tr := Transform{Angle: -0.55, Pivot: Point{300, 250}, Offset: Point{-120, 40}}
	p := Point{412.5, 199.25}

	a := tr.Apply(p)
	b := tr.Apply(p)
	if a != b {
		t.Errorf("Apply not deterministic: %v vs %v", a, b)
	}
}

func TestTransformInvertMatchesInverse(t *testing.T) {
	tr := Transform{Angle: 0.41, Pivot: Point{280, 300}, Offset: Point{-170, 40}}
	inv := tr.Invert()

	for _, p := range []Point{{0, 0}, {100, 300}, {-40, 980}, {1126, 300}} {
		q := tr.Apply(p)
		if !near(inv.Apply(q), tr.Inverse(q), 1e-9) {
			t.Errorf("Invert().Apply(%v) = %v, Inverse = %v", q, inv.Apply(q), tr.Inverse(q))
		}
	}
}

func TestTransformRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	coord := gen.Float64Range(-5000, 5000)
	angle := gen.Float64Range(-2*math.Pi, 2*math.Pi)

	properties.Property("inverse(apply(p)) == p", prop.ForAll(
		func(px, py, a, cx, cy, tx, ty float64) bool {
			tr := Transform{Angle: a, Pivot: Point{cx, cy}, Offset: Point{tx, ty}}
			p := Point{px, py}
			return near(tr.Inverse(tr.Apply(p)), p, 1e-6)
		},
		coord, coord, angle, coord, coord, coord, coord,
	))

	properties.Property("apply preserves distances", prop.ForAll(
		func(ax, ay, bx, by, a float64) bool {
			tr := Transform{Angle: a, Pivot: Point{10, 20}, Offset: Point{-3, 7}}
			p, q := Point{ax, ay}, Point{bx, by}
			return math.Abs(p.Dist(q)-tr.Apply(p).Dist(tr.Apply(q))) < 1e-6
		},
		coord, coord, coord, coord, angle,
	))

	properties.TestingRun(t)
}

func TestBounds(t *testing.T) {
	if got := Bounds(nil); got != (Rect{}) {
		t.Errorf("Bounds(nil) = %v, want zero rect", got)
	}

	r := Bounds([]Point{{3, 4}, {-1, 10}, {7, -2}})
	want := Rect{-1, -2, 7, 10}
	if r != want {
		t.Errorf("Bounds = %v, want %v", r, want)
	}
	if !r.Contains(Point{0, 0}) {
		t.Error("expected origin inside bounds")
	}
	if c := r.Clamp(Point{100, -100}); c != (Point{7, -2}) {
		t.Errorf("Clamp = %v, want (7,-2)", c)
	}
}

func TestSegmentOrientation(t *testing.T) {
	v := SegmentOf(Point{5, 0}, Point{5, 40})
	if !v.IsVertical() || v.IsHorizontal() {
		t.Errorf("expected vertical segment: %+v", v)
	}
	if math.Abs(v.Length()-40) > 1e-9 {
		t.Errorf("Length = %.2f, want 40", v.Length())
	}
	h := SegmentOf(Point{0, 5}, Point{30, 5})
	if !h.IsHorizontal() || h.IsVertical() {
		t.Errorf("expected horizontal segment: %+v", h)
	}
}
