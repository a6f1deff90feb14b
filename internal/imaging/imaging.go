// Package imaging provides the image-processing collaborators behind the
// search core: decoding and encoding, edge detection, distance fields, and
// affine warps of edge masks. All OpenCV handling stays inside this
// package; callers exchange plain Go images and the core's model types.
package imaging

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"gocv.io/x/gocv"
)

// Load reads and decodes an image file. PNG, JPEG, BMP and TIFF are
// supported.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", path, err)
	}
	return img, nil
}

// Save encodes an image to a file, picking the format from the extension.
func Save(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image %q: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(f, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	case ".bmp":
		err = bmp.Encode(f, img)
	default:
		return fmt.Errorf("unsupported image format %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("encode image %q: %w", path, err)
	}
	return nil
}

// ToMat converts a Go image to a BGR OpenCV Mat, parallelized by
// horizontal stripes. RGBA images take a fast path over the pixel buffer;
// anything else goes through the generic color interface.
func ToMat(img image.Image) (gocv.Mat, error) {
	if img == nil {
		return gocv.Mat{}, fmt.Errorf("nil image")
	}
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)

	rgba, fast := img.(*image.RGBA)

	numWorkers := runtime.NumCPU()
	rowsPerWorker := (height + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		startY := w * rowsPerWorker
		endY := min(startY+rowsPerWorker, height)
		if startY >= height {
			break
		}

		wg.Add(1)
		go func(yStart, yEnd int) {
			defer wg.Done()
			for y := yStart; y < yEnd; y++ {
				if fast {
					row := rgba.Pix[(y+bounds.Min.Y-rgba.Rect.Min.Y)*rgba.Stride:]
					for x := 0; x < width; x++ {
						p := (x + bounds.Min.X - rgba.Rect.Min.X) * 4
						mat.SetUCharAt(y, x*3+0, row[p+2])
						mat.SetUCharAt(y, x*3+1, row[p+1])
						mat.SetUCharAt(y, x*3+2, row[p+0])
					}
					continue
				}
				for x := 0; x < width; x++ {
					r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
					// OpenCV stores BGR
					mat.SetUCharAt(y, x*3+0, uint8(b>>8))
					mat.SetUCharAt(y, x*3+1, uint8(g>>8))
					mat.SetUCharAt(y, x*3+2, uint8(r>>8))
				}
			}
		}(startY, endY)
	}
	wg.Wait()

	return mat, nil
}
