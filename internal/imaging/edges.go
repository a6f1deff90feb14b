package imaging

import (
	"fmt"
	"image"

	"edge-locator/internal/hausdorff"

	"gocv.io/x/gocv"
)

// EdgeParams holds the Canny hysteresis thresholds used for edge
// extraction.
type EdgeParams struct {
	LowThreshold  float64 `json:"low_threshold"`
	HighThreshold float64 `json:"high_threshold"`
}

// DefaultEdgeParams returns the standard 1:3 Canny threshold pair.
func DefaultEdgeParams() EdgeParams {
	return EdgeParams{LowThreshold: 30, HighThreshold: 90}
}

// DetectEdges extracts an inverted edge mask from an image: grayscale,
// light Gaussian blur, Canny, then inversion so that edge pixels carry
// value 0 and background is white. The caller owns the returned Mat.
func DetectEdges(img image.Image, params EdgeParams) (gocv.Mat, error) {
	mat, err := ToMat(img)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	// Blur before Canny so single-pixel noise does not become edges
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: 3, Y: 3}, 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	gocv.Canny(blurred, &edges, float32(params.LowThreshold), float32(params.HighThreshold))
	gocv.BitwiseNot(edges, &edges)

	return edges, nil
}

// EdgeSet scans an inverted edge mask into the core's point-set form.
func EdgeSet(mask gocv.Mat) hausdorff.EdgePointSet {
	return hausdorff.EdgeSetFromMask(mask.Cols(), mask.Rows(), mask.ToBytes())
}

// ComputeDistanceField computes, for every pixel of an inverted edge mask,
// the L1 distance to the nearest edge pixel. A 3x3 mask is exact for L1,
// and the only size the labeled transform accepts besides 5x5.
func ComputeDistanceField(mask gocv.Mat) hausdorff.DistanceField {
	dist := gocv.NewMat()
	defer dist.Close()
	labels := gocv.NewMat()
	defer labels.Close()
	gocv.DistanceTransform(mask, &dist, &labels, gocv.DistL1, gocv.DistanceMask3, gocv.DistanceLabelCComp)

	width := dist.Cols()
	height := dist.Rows()
	field := hausdorff.DistanceField{
		Width:  width,
		Height: height,
		Values: make([]float32, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			field.Values[y*width+x] = dist.GetFloatAt(y, x)
		}
	}
	return field
}

// BuildEdgeModel derives both halves of an edge model from one mask.
func BuildEdgeModel(mask gocv.Mat) hausdorff.EdgeModel {
	return hausdorff.EdgeModel{
		Edges: EdgeSet(mask),
		Field: ComputeDistanceField(mask),
	}
}

// EdgeModelFromImage runs the full extraction pipeline on a decoded image.
func EdgeModelFromImage(img image.Image, params EdgeParams) (hausdorff.EdgeModel, error) {
	mask, err := DetectEdges(img, params)
	if err != nil {
		return hausdorff.EdgeModel{}, err
	}
	defer mask.Close()
	return BuildEdgeModel(mask), nil
}

// NewSearchSpace builds the models for a needle/haystack pair.
func NewSearchSpace(needle, haystack image.Image, params EdgeParams) (hausdorff.SearchSpace, error) {
	needleModel, err := EdgeModelFromImage(needle, params)
	if err != nil {
		return hausdorff.SearchSpace{}, fmt.Errorf("needle edges: %w", err)
	}
	haystackModel, err := EdgeModelFromImage(haystack, params)
	if err != nil {
		return hausdorff.SearchSpace{}, fmt.Errorf("haystack edges: %w", err)
	}
	return hausdorff.SearchSpace{Needle: needleModel, Haystack: haystackModel}, nil
}
