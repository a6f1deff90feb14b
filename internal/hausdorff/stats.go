package hausdorff

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the value distribution of a distance field.
type Stats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P95    float64 `json:"p95"`
	Max    float64 `json:"max"`
}

// FieldStats computes summary statistics over every cell of a field.
// A large mean relative to the median usually means sparse edges with big
// empty regions, which makes translation minima shallow.
func FieldStats(f DistanceField) Stats {
	if len(f.Values) == 0 {
		return Stats{}
	}

	values := make([]float64, len(f.Values))
	for i, v := range f.Values {
		values[i] = float64(v)
	}
	sort.Float64s(values)

	return Stats{
		Mean:   stat.Mean(values, nil),
		Median: stat.Quantile(0.5, stat.Empirical, values, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, values, nil),
		Max:    floats.Max(values),
	}
}
