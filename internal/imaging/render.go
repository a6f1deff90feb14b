package imaging

import (
	"image"

	"edge-locator/internal/hausdorff"

	"gocv.io/x/gocv"
)

// RenderEdges converts an inverted edge mask to a grayscale image, edges
// black on white.
func RenderEdges(mask gocv.Mat) *image.Gray {
	width := mask.Cols()
	height := mask.Rows()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Pix[y*img.Stride+x] = mask.GetUCharAt(y, x)
		}
	}
	return img
}

// RenderField renders a distance field as a grayscale heat map, black at
// the edges and brightening with distance. Values are normalized to the
// field's 95th percentile so a few distant corners don't flatten the rest
// of the picture.
func RenderField(field hausdorff.DistanceField) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, field.Width, field.Height))
	if len(field.Values) == 0 {
		return img
	}

	stats := hausdorff.FieldStats(field)
	limit := stats.P95
	if limit <= 0 {
		limit = stats.Max
	}
	if limit <= 0 {
		return img
	}

	for i, v := range field.Values {
		scaled := float64(v) / limit * 255
		if scaled > 255 {
			scaled = 255
		}
		img.Pix[i] = uint8(scaled)
	}
	return img
}
