package hausdorff

import (
	"testing"

	"edge-locator/pkg/geometry"
)

// pointSpace builds a space with a single-point needle on a 2x2 canvas and
// a single-point haystack, giving a landscape whose only zero is at the
// haystack point's offset.
func pointSpace(hayW, hayH int, at geometry.PointInt) SearchSpace {
	return SearchSpace{
		Needle:   buildModel(2, 2, maskWith(2, 2, geometry.PointInt{X: 0, Y: 0})),
		Haystack: buildModel(hayW, hayH, maskWith(hayW, hayH, at)),
	}
}

func TestFullWindow(t *testing.T) {
	space := pointSpace(16, 12, geometry.PointInt{X: 3, Y: 2})
	window := FullWindow(space)
	want := Window{MaxX: 14, MaxY: 10}
	if window != want {
		t.Errorf("FullWindow = %+v, want %+v", window, want)
	}
	if window.Empty() {
		t.Error("full window reported empty")
	}
}

func TestWindowEmpty(t *testing.T) {
	tests := []struct {
		name   string
		window Window
		want   bool
	}{
		{"unit window", Window{MaxX: 1, MaxY: 1}, false},
		{"zero window", Window{}, true},
		{"negative span", Window{MinX: 5, MaxX: 3, MaxY: 10}, true},
		{"flat in y", Window{MaxX: 10, MinY: 4, MaxY: 4}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.window.Empty(); got != tt.want {
				t.Errorf("Empty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchTranslationsFindsExactPlacement(t *testing.T) {
	space := pointSpace(16, 16, geometry.PointInt{X: 3, Y: 2})

	offset, dist := SearchTranslations(space, FullWindow(space), 1)
	if offset != (geometry.PointInt{X: 3, Y: 2}) {
		t.Errorf("offset = %+v, want {3 2}", offset)
	}
	if dist != 0 {
		t.Errorf("distance = %v, want 0", dist)
	}
}

func TestSearchTranslationsTieBreak(t *testing.T) {
	// Two copies of the needle point give two exact-zero placements; the
	// earlier one in row-major order must win.
	space := SearchSpace{
		Needle: buildModel(2, 2, maskWith(2, 2, geometry.PointInt{X: 0, Y: 0})),
		Haystack: buildModel(8, 8, maskWith(8, 8,
			geometry.PointInt{X: 1, Y: 1}, geometry.PointInt{X: 5, Y: 1})),
	}

	for _, at := range []geometry.PointInt{{X: 1, Y: 1}, {X: 5, Y: 1}} {
		if d := SymmetricDistance(space, at); d != 0 {
			t.Fatalf("placement %+v: distance = %v, want 0 (tie premise broken)", at, d)
		}
	}

	offset, dist := SearchTranslations(space, FullWindow(space), 1)
	if offset != (geometry.PointInt{X: 1, Y: 1}) {
		t.Errorf("offset = %+v, want first tie {1 1}", offset)
	}
	if dist != 0 {
		t.Errorf("distance = %v, want 0", dist)
	}
}

func TestSearchTranslationsEmptyWindow(t *testing.T) {
	space := pointSpace(16, 16, geometry.PointInt{X: 3, Y: 2})

	offset, dist := SearchTranslations(space, Window{}, 1)
	if offset != (geometry.PointInt{}) || dist != MaxDistance {
		t.Errorf("empty window: got (%+v, %v), want ({0 0}, MaxDistance)", offset, dist)
	}
}

func TestSearchTranslationsStepBelowOne(t *testing.T) {
	space := pointSpace(16, 16, geometry.PointInt{X: 3, Y: 2})
	window := FullWindow(space)

	wantOffset, wantDist := SearchTranslations(space, window, 1)
	for _, step := range []int{0, -4} {
		offset, dist := SearchTranslations(space, window, step)
		if offset != wantOffset || dist != wantDist {
			t.Errorf("step %d: got (%+v, %v), want (%+v, %v)", step, offset, dist, wantOffset, wantDist)
		}
	}
}

func TestSearchHierarchicalConvergence(t *testing.T) {
	// Known minimum at (3, 2). Coarse rounds see nothing but sentinel
	// values; refinement must still walk down to the exact offset.
	space := pointSpace(16, 16, geometry.PointInt{X: 3, Y: 2})

	for _, initialStep := range []int{8, 16, 32} {
		offset, dist := SearchHierarchical(space, initialStep)
		if offset != (geometry.PointInt{X: 3, Y: 2}) {
			t.Errorf("initialStep %d: offset = %+v, want {3 2}", initialStep, offset)
		}
		if dist != 0 {
			t.Errorf("initialStep %d: distance = %v, want 0", initialStep, dist)
		}
	}
}

func TestSearchHierarchicalStepOneMatchesExhaustive(t *testing.T) {
	pattern := []geometry.PointInt{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 2}}
	at := geometry.PointInt{X: 4, Y: 3}
	var hayPoints []geometry.PointInt
	for _, p := range pattern {
		hayPoints = append(hayPoints, p.Add(at))
	}
	space := SearchSpace{
		Needle:   buildModel(3, 3, maskWith(3, 3, pattern...)),
		Haystack: buildModel(12, 12, maskWith(12, 12, hayPoints...)),
	}

	wantOffset, wantDist := SearchTranslations(space, FullWindow(space), 1)
	for _, initialStep := range []int{1, 0, -1} {
		offset, dist := SearchHierarchical(space, initialStep)
		if offset != wantOffset || dist != wantDist {
			t.Errorf("initialStep %d: got (%+v, %v), want exhaustive (%+v, %v)",
				initialStep, offset, dist, wantOffset, wantDist)
		}
	}
}

func TestSearchHierarchicalNeedleLargerThanHaystack(t *testing.T) {
	space := SearchSpace{
		Needle:   buildModel(8, 8, maskWith(8, 8, geometry.PointInt{X: 4, Y: 4})),
		Haystack: buildModel(4, 4, maskWith(4, 4, geometry.PointInt{X: 1, Y: 1})),
	}

	offset, dist := SearchHierarchical(space, 4)
	if offset != (geometry.PointInt{}) || dist != MaxDistance {
		t.Errorf("got (%+v, %v), want ({0 0}, MaxDistance)", offset, dist)
	}
}
