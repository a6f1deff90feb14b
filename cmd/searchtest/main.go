// Command searchtest runs a full pose search on a needle/haystack pair and
// prints the best match, optionally writing a JSON report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"edge-locator/internal/hausdorff"
	"edge-locator/internal/imaging"
	"edge-locator/internal/report"
)

func main() {
	needlePath := flag.String("needle", "", "Path to the template image to find")
	haystackPath := flag.String("haystack", "", "Path to the scene image to search")
	rotMin := flag.Int("rot-min", -32, "Minimum rotation in degrees")
	rotMax := flag.Int("rot-max", 32, "Maximum rotation in degrees (inclusive)")
	rotStep := flag.Int("rot-step", 4, "Rotation step in degrees")
	scaleMin := flag.Float64("scale-min", 0.5, "Minimum scale factor")
	scaleMax := flag.Float64("scale-max", 2.0, "Maximum scale factor (inclusive)")
	scaleStep := flag.Float64("scale-step", 0.25, "Scale step")
	step := flag.Int("step", 32, "Initial translation step")
	edgeLow := flag.Float64("edge-low", 30, "Canny low threshold")
	edgeHigh := flag.Float64("edge-high", 90, "Canny high threshold")
	timeout := flag.Duration("timeout", 0, "Abort the sweep after this long (0 = no limit)")
	outPath := flag.String("out", "", "Write a JSON report to this path")
	flag.Parse()

	if *needlePath == "" || *haystackPath == "" {
		fmt.Println("Usage: searchtest -needle <path> -haystack <path> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	needle, err := imaging.Load(*needlePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load needle: %v\n", err)
		os.Exit(1)
	}
	nb := needle.Bounds()
	fmt.Printf("Loaded needle: %dx%d pixels\n", nb.Dx(), nb.Dy())

	haystack, err := imaging.Load(*haystackPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load haystack: %v\n", err)
		os.Exit(1)
	}
	hb := haystack.Bounds()
	fmt.Printf("Loaded haystack: %dx%d pixels\n", hb.Dx(), hb.Dy())

	edgeParams := imaging.EdgeParams{LowThreshold: *edgeLow, HighThreshold: *edgeHigh}
	searchParams := hausdorff.DefaultSearchParams().
		WithTranslationStep(*step).
		WithRotationRange(*rotMin, *rotMax, *rotStep).
		WithScaleRange(*scaleMin, *scaleMax, *scaleStep)

	fmt.Printf("\nSearch parameters:\n")
	fmt.Printf("  Canny thresholds: %.0f / %.0f\n", edgeParams.LowThreshold, edgeParams.HighThreshold)
	fmt.Printf("  Translation step: %d\n", searchParams.TranslationStep)
	fmt.Printf("  Rotation: %d° to %d° step %d°\n",
		searchParams.MinRotation, searchParams.MaxRotation, searchParams.RotationStep)
	fmt.Printf("  Scale: %.2f to %.2f step %.2f\n",
		searchParams.MinScale, searchParams.MaxScale, searchParams.ScaleStep)

	fmt.Printf("\nBuilding edge models...\n")
	space, err := imaging.NewSearchSpace(needle, haystack, edgeParams)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Edge model construction failed: %v\n", err)
		os.Exit(1)
	}

	needleStats := hausdorff.FieldStats(space.Needle.Field)
	haystackStats := hausdorff.FieldStats(space.Haystack.Field)
	fmt.Printf("  Needle: %d edge points, field mean %.2f median %.2f p95 %.2f max %.2f\n",
		len(space.Needle.Edges.Points),
		needleStats.Mean, needleStats.Median, needleStats.P95, needleStats.Max)
	fmt.Printf("  Haystack: %d edge points, field mean %.2f median %.2f p95 %.2f max %.2f\n",
		len(space.Haystack.Edges.Points),
		haystackStats.Mean, haystackStats.Median, haystackStats.P95, haystackStats.Max)

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	start := time.Now()
	result, winner, err := hausdorff.SearchPoses(ctx, space, imaging.PoseTransformer{}, searchParams)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nBest match:\n")
	fmt.Printf("  Offset: (%d, %d)\n", result.Offset.X, result.Offset.Y)
	fmt.Printf("  Rotation: %d°\n", result.Rotation)
	fmt.Printf("  Scale: %.2f\n", result.Scale)
	fmt.Printf("  Distance: %.2f\n", result.Distance)
	fmt.Printf("  Needle at winning pose: %d edge points\n", len(winner.Edges.Points))
	fmt.Printf("Search took %.2f secs\n", elapsed)

	if *outPath != "" {
		doc := report.New(*needlePath, *haystackPath)
		doc.EdgeParams = edgeParams
		doc.SearchParams = searchParams
		doc.Match = result
		doc.ElapsedSeconds = elapsed
		doc.NeedleFieldStats = needleStats
		doc.HaystackFieldStats = haystackStats
		if err := doc.Save(*outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Report written: %s\n", *outPath)
	}
}
