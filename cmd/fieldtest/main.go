// Command fieldtest extracts the edge map and distance field of a single
// image and reports field statistics, with optional visualizations.
package main

import (
	"flag"
	"fmt"
	"os"

	"edge-locator/internal/hausdorff"
	"edge-locator/internal/imaging"
)

func main() {
	imagePath := flag.String("image", "", "Path to the image to analyze")
	edgeLow := flag.Float64("edge-low", 30, "Canny low threshold")
	edgeHigh := flag.Float64("edge-high", 90, "Canny high threshold")
	edgesOut := flag.String("edges-out", "", "Write the edge map to this path")
	fieldOut := flag.String("field-out", "", "Write a distance field heat map to this path")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: fieldtest -image <path> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	img, err := imaging.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	b := img.Bounds()
	fmt.Printf("Loaded image: %dx%d pixels\n", b.Dx(), b.Dy())

	params := imaging.EdgeParams{LowThreshold: *edgeLow, HighThreshold: *edgeHigh}
	fmt.Printf("Canny thresholds: %.0f / %.0f\n", params.LowThreshold, params.HighThreshold)

	mask, err := imaging.DetectEdges(img, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Edge detection failed: %v\n", err)
		os.Exit(1)
	}
	defer mask.Close()

	edges := imaging.EdgeSet(mask)
	total := b.Dx() * b.Dy()
	fmt.Printf("Edge points: %d of %d pixels (%.1f%%)\n",
		len(edges.Points), total, float64(len(edges.Points))/float64(total)*100)

	field := imaging.ComputeDistanceField(mask)
	stats := hausdorff.FieldStats(field)
	fmt.Printf("Distance field: mean %.2f median %.2f p95 %.2f max %.2f\n",
		stats.Mean, stats.Median, stats.P95, stats.Max)

	if *edgesOut != "" {
		if err := imaging.Save(imaging.RenderEdges(mask), *edgesOut); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write edge map: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Edge map written: %s\n", *edgesOut)
	}
	if *fieldOut != "" {
		if err := imaging.Save(imaging.RenderField(field), *fieldOut); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write field map: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Field map written: %s\n", *fieldOut)
	}
}
