package binning

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrTooFewBins is returned when fewer than two labels are supplied.
	ErrTooFewBins = errors.New("binning: need at least 2 bins")
	// ErrNonNumeric is returned when the series contains NaN or infinite values.
	ErrNonNumeric = errors.New("binning: non-numeric value")
)

// Bin assigns each value to one of len(labels) ordered buckets and returns the
// bucket labels. labels[0] goes to the lowest quantile group.
//
// When duplicate quantile edges make an exact cut impossible, values are
// bucketed by percentile rank instead. See Assign.
func Bin[L any](values []float64, labels []L) ([]L, error) {
	out, _, err := Assign(values, labels)
	return out, err
}

// Assign is Bin, also reporting whether the rank fallback was used.
func Assign[L any](values []float64, labels []L) (out []L, fallback bool, err error) {
	n := len(labels)
	if n < 2 {
		return nil, false, ErrTooFewBins
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false, fmt.Errorf("value %d (%v): %w", i, v, ErrNonNumeric)
		}
	}
	if len(values) == 0 {
		return []L{}, false, nil
	}

	var idx []int
	edges := Edges(values, n)
	if distinct(edges) {
		idx = cut(values, edges)
	} else {
		idx = rankCut(values, n)
		fallback = true
	}

	out = make([]L, len(values))
	for i, b := range idx {
		out[i] = labels[b-1]
	}
	return out, fallback, nil
}

// Edges returns the n+1 quantile boundaries of values at 0, 1/n, ..., 1,
// interpolating linearly between the closest ranks.
func Edges(values []float64, n int) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	edges := make([]float64, n+1)
	for i := range edges {
		edges[i] = quantile(sorted, linspace(n, i))
	}
	return edges
}

// PercentRank returns the fractional rank of each value in (0, 1]. Ties get
// the mean of the ranks they span.
func PercentRank(values []float64) []float64 {
	k := len(values)
	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	ranks := make([]float64, k)
	for start := 0; start < k; {
		end := start + 1
		for end < k && values[order[end]] == values[order[start]] {
			end++
		}
		// Ranks start..end-1 are 1-based start+1..end.
		avg := float64(start+1+end) / 2
		for _, j := range order[start:end] {
			ranks[j] = avg / float64(k)
		}
		start = end
	}
	return ranks
}

func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// linspace returns the i-th of n+1 evenly spaced points over [0, 1].
func linspace(n, i int) float64 {
	if i == n {
		return 1
	}
	return float64(i) * (1 / float64(n))
}

func distinct(edges []float64) bool {
	for i := 1; i < len(edges); i++ {
		if edges[i] == edges[i-1] {
			return false
		}
	}
	return true
}

// cut maps each value to the 1-based interval (edges[j-1], edges[j]] holding
// it. The lowest edge belongs to interval 1.
func cut(values, edges []float64) []int {
	idx := make([]int, len(values))
	for i, v := range values {
		j := sort.SearchFloat64s(edges, v)
		if j == 0 {
			j = 1
		}
		idx[i] = j
	}
	return idx
}

// rankCut buckets values by percentile rank into n equal-width,
// right-inclusive intervals of [0, 1].
func rankCut(values []float64, n int) []int {
	bounds := make([]float64, n+1)
	for i := range bounds {
		bounds[i] = linspace(n, i)
	}

	ranks := PercentRank(values)
	idx := make([]int, len(values))
	for i, r := range ranks {
		j := sort.SearchFloat64s(bounds, r)
		idx[i] = min(max(j, 1), n)
	}
	return idx
}
