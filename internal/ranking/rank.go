// Package ranking finds the best and worst reconstructed samples of a
// dataset by per-sample VAE loss.
package ranking

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// DefaultK is the number of best and worst samples reported.
const DefaultK = 5

// ErrEmpty reports a ranking over zero samples.
var ErrEmpty = errors.New("ranking: no samples")

// Ranking holds indices into the per-sample loss list. Best is in ascending
// loss order; Worst is the tail of the same ascending order, so the two may
// overlap when fewer than 2K samples exist.
type Ranking struct {
	Best  []int
	Worst []int
}

// Rank sorts losses ascending with ties kept in input order and NaN last,
// and returns the first and last min(k, len(losses)) indices.
func Rank(losses []float64, k int) (Ranking, error) {
	if len(losses) == 0 {
		return Ranking{}, ErrEmpty
	}
	if k < 1 {
		return Ranking{}, fmt.Errorf("ranking: k must be >= 1 (got %d)", k)
	}
	order := make([]int, len(losses))
	for i := range order {
		order[i] = i
	}
	// NaN sorts after every number, as np.argsort does.
	sort.SliceStable(order, func(a, b int) bool {
		x, y := losses[order[a]], losses[order[b]]
		return x < y || (!math.IsNaN(x) && math.IsNaN(y))
	})
	if k > len(order) {
		k = len(order)
	}
	return Ranking{
		Best:  append([]int(nil), order[:k]...),
		Worst: append([]int(nil), order[len(order)-k:]...),
	}, nil
}
