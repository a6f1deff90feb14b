package geometry

import (
	"math"
	"testing"
)

const eps = 1e-9

func approxEqual(a, b Point2D) bool {
	return math.Abs(a.X-b.X) < 1e-6 && math.Abs(a.Y-b.Y) < 1e-6
}

func TestPointIntArithmetic(t *testing.T) {
	p := PointInt{X: 3, Y: -2}
	if got := p.Add(PointInt{X: 1, Y: 5}); got != (PointInt{X: 4, Y: 3}) {
		t.Errorf("Add = %+v, want {4 3}", got)
	}
	if got := p.Neg(); got != (PointInt{X: -3, Y: 2}) {
		t.Errorf("Neg = %+v, want {-3 2}", got)
	}
	if got := p.ToFloat(); got != (Point2D{X: 3, Y: -2}) {
		t.Errorf("ToFloat = %+v, want {3 -2}", got)
	}
}

func TestPoint2DDistance(t *testing.T) {
	a := NewPoint2D(0, 0)
	b := NewPoint2D(3, 4)
	if got := a.Distance(b); math.Abs(got-5) > eps {
		t.Errorf("Distance = %v, want 5", got)
	}
	if got := b.Distance(b); got != 0 {
		t.Errorf("Distance to self = %v, want 0", got)
	}
}

func TestRotateScaleAbout(t *testing.T) {
	tests := []struct {
		name    string
		center  Point2D
		radians float64
		scale   float64
		in      Point2D
		want    Point2D
	}{
		{
			name:   "identity",
			center: Point2D{X: 5, Y: 5},
			scale:  1,
			in:     Point2D{X: 2, Y: 7},
			want:   Point2D{X: 2, Y: 7},
		},
		{
			name:    "quarter turn counter-clockwise about center",
			center:  Point2D{X: 2, Y: 3},
			radians: math.Pi / 2,
			scale:   1,
			in:      Point2D{X: 3, Y: 3},
			want:    Point2D{X: 2, Y: 2},
		},
		{
			name:   "pure scale about center",
			center: Point2D{X: 1, Y: 1},
			scale:  2,
			in:     Point2D{X: 2, Y: 1},
			want:   Point2D{X: 3, Y: 1},
		},
		{
			name:    "half turn",
			center:  Point2D{X: 0, Y: 0},
			radians: math.Pi,
			scale:   1,
			in:      Point2D{X: 4, Y: -1},
			want:    Point2D{X: -4, Y: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := RotateScaleAbout(tt.center, tt.radians, tt.scale)
			if got := m.Apply(tt.in); !approxEqual(got, tt.want) {
				t.Errorf("Apply(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
			// The center must be a fixed point of the transform.
			if got := m.Apply(tt.center); !approxEqual(got, tt.center) {
				t.Errorf("center moved: Apply(%+v) = %+v", tt.center, got)
			}
		})
	}
}

func TestRotateScaleAboutMatchesComposition(t *testing.T) {
	center := Point2D{X: 10, Y: 20}
	radians := 0.3
	scale := 1.5

	direct := RotateScaleAbout(center, radians, scale)
	composed := Translation(center.X, center.Y).
		Compose(Rotation(-radians)).
		Compose(Scale(scale, scale)).
		Compose(Translation(-center.X, -center.Y))

	probes := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 20}, {X: -3, Y: 17}, {X: 100, Y: 1}}
	for _, p := range probes {
		a := direct.Apply(p)
		b := composed.Apply(p)
		if !approxEqual(a, b) {
			t.Errorf("Apply(%+v): direct %+v != composed %+v", p, a, b)
		}
	}
}

func TestInverse(t *testing.T) {
	m := RotateScaleAbout(Point2D{X: 4, Y: 9}, 0.7, 1.25)
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("Inverse reported singular for an invertible transform")
	}

	p := Point2D{X: 13, Y: -6}
	if got := inv.Apply(m.Apply(p)); !approxEqual(got, p) {
		t.Errorf("round trip = %+v, want %+v", got, p)
	}

	if _, ok := Scale(0, 0).Inverse(); ok {
		t.Error("Inverse succeeded for a singular transform")
	}
}

func TestToMatrix(t *testing.T) {
	m := AffineTransform{A: 1, B: 2, TX: 3, C: 4, D: 5, TY: 6}
	got := m.ToMatrix()
	want := [2][3]float64{{1, 2, 3}, {4, 5, 6}}
	if got != want {
		t.Errorf("ToMatrix = %v, want %v", got, want)
	}
}
