package hausdorff

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"edge-locator/pkg/geometry"
)

// Transformer produces the needle's edge model warped by a rotation
// (radians, counter-clockwise) and a uniform scale about the canvas
// center. The returned model keeps the source canvas dimensions.
type Transformer interface {
	Transform(edges EdgePointSet, radians, scale float64) (EdgeModel, error)
}

// MatchResult is the outcome of a pose search: the winning placement and
// the pose that produced it.
type MatchResult struct {
	Offset   geometry.PointInt `json:"offset"`
	Rotation int               `json:"rotation_degrees"`
	Scale    float64           `json:"scale"`
	Distance float64           `json:"distance"`
}

// pose is one cell of the rotation x scale grid. The index records the
// cell's position in sequential sweep order (rotation outer, scale inner)
// and decides ties between equal distances.
type pose struct {
	index    int
	rotation int
	scale    float64
}

func (p SearchParams) poses() ([]pose, error) {
	if p.RotationStep <= 0 {
		return nil, fmt.Errorf("rotation step must be positive, got %d", p.RotationStep)
	}
	if p.ScaleStep <= 0 {
		return nil, fmt.Errorf("scale step must be positive, got %g", p.ScaleStep)
	}
	if p.MinScale <= 0 {
		return nil, fmt.Errorf("minimum scale must be positive, got %g", p.MinScale)
	}
	if p.MinRotation > p.MaxRotation {
		return nil, fmt.Errorf("empty rotation range [%d, %d]", p.MinRotation, p.MaxRotation)
	}
	if p.MinScale > p.MaxScale {
		return nil, fmt.Errorf("empty scale range [%g, %g]", p.MinScale, p.MaxScale)
	}

	// Scales are enumerated by index so the inclusive endpoint survives
	// float rounding.
	scaleCount := int((p.MaxScale-p.MinScale)/p.ScaleStep+1e-9) + 1

	var poses []pose
	index := 0
	for r := p.MinRotation; r <= p.MaxRotation; r += p.RotationStep {
		for i := 0; i < scaleCount; i++ {
			poses = append(poses, pose{
				index:    index,
				rotation: r,
				scale:    p.MinScale + float64(i)*p.ScaleStep,
			})
			index++
		}
	}
	return poses, nil
}

func radians(degrees int) float64 {
	return float64(degrees) * math.Pi / 180
}

// SearchPoses sweeps the rotation x scale grid, running the hierarchical
// translation search against a freshly transformed needle for every pose,
// and returns the best pose together with the needle model warped to it.
// Poses run in parallel across CPUs; equal distances resolve to the pose
// the sequential sweep would have reached first. The context is checked
// before each pose is dispatched, and a cancellation abandons the sweep.
func SearchPoses(ctx context.Context, space SearchSpace, transformer Transformer, params SearchParams) (MatchResult, EdgeModel, error) {
	poses, err := params.poses()
	if err != nil {
		return MatchResult{}, EdgeModel{}, err
	}

	numCPU := runtime.NumCPU()
	fmt.Printf("[PoseSearch] %d poses, rotation %d..%d° step %d, scale %.2f..%.2f step %.2f, %d workers\n",
		len(poses), params.MinRotation, params.MaxRotation, params.RotationStep,
		params.MinScale, params.MaxScale, params.ScaleStep, numCPU)

	var (
		mu        sync.Mutex
		bestIndex = -1
		best      MatchResult
		firstErr  error
	)

	var wg sync.WaitGroup
	sem := make(chan struct{}, numCPU)

	canceled := false
	for _, p := range poses {
		select {
		case <-ctx.Done():
			canceled = true
		default:
		}
		if canceled {
			break
		}

		wg.Add(1)
		sem <- struct{}{} // Acquire semaphore

		go func(p pose) {
			defer wg.Done()
			defer func() { <-sem }() // Release semaphore

			model, err := transformer.Transform(space.Needle.Edges, radians(p.rotation), p.scale)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("transform rotation=%d° scale=%.2f: %w", p.rotation, p.scale, err)
				}
				mu.Unlock()
				return
			}

			candidate := SearchSpace{Needle: model, Haystack: space.Haystack}
			offset, dist := SearchHierarchical(candidate, params.TranslationStep)

			mu.Lock()
			if bestIndex == -1 || dist < best.Distance || (dist == best.Distance && p.index < bestIndex) {
				bestIndex = p.index
				best = MatchResult{Offset: offset, Rotation: p.rotation, Scale: p.scale, Distance: dist}
			}
			mu.Unlock()
		}(p)
	}

	wg.Wait()

	if canceled {
		return MatchResult{}, EdgeModel{}, ctx.Err()
	}
	if firstErr != nil {
		return MatchResult{}, EdgeModel{}, firstErr
	}

	// Re-derive the winning model so the caller gets the needle as the
	// best pose saw it.
	winner, err := transformer.Transform(space.Needle.Edges, radians(best.Rotation), best.Scale)
	if err != nil {
		return MatchResult{}, EdgeModel{}, fmt.Errorf("transform winning pose: %w", err)
	}

	fmt.Printf("[PoseSearch] best dist %.2f at (%d, %d), rotation %d°, scale %.2f\n",
		best.Distance, best.Offset.X, best.Offset.Y, best.Rotation, best.Scale)

	return best, winner, nil
}
