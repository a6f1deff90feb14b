package imaging

import (
	"fmt"
	"image"
	"image/color"

	"edge-locator/internal/hausdorff"
	"edge-locator/pkg/geometry"

	"gocv.io/x/gocv"
)

// RotateScale warps an inverted edge mask by a rotation (radians,
// counter-clockwise) and a uniform scale about the canvas center. The
// result keeps the source dimensions; pixels the warp uncovers fill as
// background. Nearest-neighbour sampling keeps the mask binary, so edge
// pixels stay exactly 0. The caller owns the returned Mat.
func RotateScale(mask gocv.Mat, radians, scale float64) (gocv.Mat, error) {
	if mask.Empty() {
		return gocv.Mat{}, fmt.Errorf("empty mask")
	}
	if scale <= 0 {
		return gocv.Mat{}, fmt.Errorf("scale must be positive, got %g", scale)
	}

	width := mask.Cols()
	height := mask.Rows()
	center := geometry.Point2D{X: float64(width / 2), Y: float64(height / 2)}
	transform := geometry.RotateScaleAbout(center, radians, scale)

	m := transform.ToMatrix()
	transformMat := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	defer transformMat.Close()
	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			transformMat.SetDoubleAt(row, col, m[row][col])
		}
	}

	dst := gocv.NewMat()
	gocv.WarpAffineWithParams(mask, &dst, transformMat, image.Point{X: width, Y: height},
		gocv.InterpolationNearestNeighbor, gocv.BorderConstant,
		color.RGBA{R: 255, G: 255, B: 255, A: 255})

	return dst, nil
}

// MaskFromEdgeSet rasterizes an edge point set back into an inverted edge
// mask: white background with value 0 at each edge point. The caller owns
// the returned Mat.
func MaskFromEdgeSet(edges hausdorff.EdgePointSet) gocv.Mat {
	mask := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0),
		edges.Height, edges.Width, gocv.MatTypeCV8U)
	for _, p := range edges.Points {
		mask.SetUCharAt(p.Y, p.X, 0)
	}
	return mask
}

// PoseTransformer adapts RotateScale to the search core's Transformer
// interface: rasterize the edge set, warp it, and derive a fresh model
// from the warped mask.
type PoseTransformer struct{}

// Transform implements hausdorff.Transformer.
func (PoseTransformer) Transform(edges hausdorff.EdgePointSet, radians, scale float64) (hausdorff.EdgeModel, error) {
	mask := MaskFromEdgeSet(edges)
	defer mask.Close()

	warped, err := RotateScale(mask, radians, scale)
	if err != nil {
		return hausdorff.EdgeModel{}, err
	}
	defer warped.Close()

	return BuildEdgeModel(warped), nil
}
