// Package hausdorff locates a small edge image (the needle) inside a larger
// one (the haystack) by minimizing the symmetric Hausdorff distance between
// their edge sets over candidate placements.
package hausdorff

import (
	"math"

	"edge-locator/pkg/geometry"
)

// MaxDistance is returned when a placement leaves no edge point to measure,
// so that such placements always lose to any real match.
const MaxDistance = 9999

// EdgePointSet holds the on-edge pixel coordinates of an edge-detected
// image together with the dimensions of the canvas they came from.
type EdgePointSet struct {
	Width  int
	Height int
	Points []geometry.PointInt
}

// EdgeSetFromMask extracts the edge points from a row-major 8-bit mask in
// which edge pixels have value 0 (the inverted-Canny convention).
func EdgeSetFromMask(width, height int, mask []uint8) EdgePointSet {
	s := EdgePointSet{Width: width, Height: height}
	for y := 0; y < height; y++ {
		row := mask[y*width : (y+1)*width]
		for x, v := range row {
			if v == 0 {
				s.Points = append(s.Points, geometry.PointInt{X: x, Y: y})
			}
		}
	}
	return s
}

// DistanceField holds, for every pixel of an edge-detected image, the L1
// distance to the nearest edge pixel, in row-major order.
type DistanceField struct {
	Width  int
	Height int
	Values []float32
}

// At returns the distance at (x, y). Bounds are the caller's responsibility.
func (f DistanceField) At(x, y int) float64 {
	return float64(f.Values[y*f.Width+x])
}

// EdgeModel pairs the edge points of an image with the distance field
// derived from them. Both always describe the same canvas.
type EdgeModel struct {
	Edges EdgePointSet
	Field DistanceField
}

// SearchSpace bundles the needle and haystack models a search operates on.
type SearchSpace struct {
	Needle   EdgeModel
	Haystack EdgeModel
}

// DirectedDistance returns the directed Hausdorff distance from the edge
// points of a, translated by offset, into the distance field b: the largest
// distance-to-nearest-edge sampled under any translated edge point. Points
// landing outside b are skipped; if every point does, MaxDistance is
// returned.
func DirectedDistance(a EdgePointSet, b DistanceField, offset geometry.PointInt) float64 {
	d, _ := directedDistance(a, b, offset)
	return d
}

func directedDistance(a EdgePointSet, b DistanceField, offset geometry.PointInt) (float64, int) {
	var maxDist float64
	considered := 0
	for _, p := range a.Points {
		x := p.X + offset.X
		y := p.Y + offset.Y
		if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
			continue
		}
		considered++
		if d := b.At(x, y); d > maxDist {
			maxDist = d
		}
	}
	if considered == 0 {
		return MaxDistance, 0
	}
	return maxDist, considered
}

// SymmetricDistance returns the symmetric Hausdorff distance for the needle
// placed at offset in the haystack: the worse of the forward direction
// (needle edges into the haystack field) and the reverse direction
// (haystack edges into the needle field at the negated offset).
func SymmetricDistance(space SearchSpace, offset geometry.PointInt) float64 {
	forward := DirectedDistance(space.Needle.Edges, space.Haystack.Field, offset)
	reverse := DirectedDistance(space.Haystack.Edges, space.Needle.Field, offset.Neg())
	return math.Max(forward, reverse)
}
