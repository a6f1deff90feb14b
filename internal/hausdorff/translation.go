package hausdorff

import (
	"math"

	"edge-locator/pkg/geometry"
)

// Window is a half-open range of candidate offsets: x in [MinX, MaxX),
// y in [MinY, MaxY).
type Window struct {
	MinX, MinY int
	MaxX, MaxY int
}

// Empty reports whether the window contains no offsets.
func (w Window) Empty() bool {
	return w.MinX >= w.MaxX || w.MinY >= w.MaxY
}

// FullWindow returns the window of offsets the needle can slide across
// within the haystack.
func FullWindow(space SearchSpace) Window {
	return Window{
		MaxX: space.Haystack.Field.Width - space.Needle.Edges.Width,
		MaxY: space.Haystack.Field.Height - space.Needle.Edges.Height,
	}
}

// SearchTranslations scans the window in row-major order with the given
// stride and returns the offset with the smallest symmetric distance.
// The earliest offset wins ties. An empty window yields the zero offset
// and MaxDistance.
func SearchTranslations(space SearchSpace, window Window, step int) (geometry.PointInt, float64) {
	if step < 1 {
		step = 1
	}
	if window.Empty() {
		return geometry.PointInt{}, MaxDistance
	}

	var best geometry.PointInt
	bestDistance := math.Inf(1)
	for y := window.MinY; y < window.MaxY; y += step {
		for x := window.MinX; x < window.MaxX; x += step {
			offset := geometry.PointInt{X: x, Y: y}
			if d := SymmetricDistance(space, offset); d < bestDistance {
				bestDistance = d
				best = offset
			}
		}
	}
	return best, bestDistance
}

// SearchHierarchical refines a coarse scan of the full placement window by
// halving the stride each round and, whenever a round improves on the best
// distance so far, shrinking the window to ±step around the new best
// offset. A stride below 1 is treated as 1.
func SearchHierarchical(space SearchSpace, initialStep int) (geometry.PointInt, float64) {
	if initialStep < 1 {
		initialStep = 1
	}

	full := FullWindow(space)
	window := full

	var best geometry.PointInt
	bestDistance := math.Inf(1)

	for step := initialStep; step > 0; step /= 2 {
		offset, dist := SearchTranslations(space, window, step)
		if dist < bestDistance {
			bestDistance = dist
			best = offset
			window = Window{
				MinX: max(0, offset.X-step),
				MinY: max(0, offset.Y-step),
				MaxX: min(full.MaxX, offset.X+step),
				MaxY: min(full.MaxY, offset.Y+step),
			}
		}
	}

	return best, bestDistance
}
