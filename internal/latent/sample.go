package latent

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"vae-lens/internal/model"
)

// Sample decodes n latent vectors drawn from the standard-normal prior.
func Sample(m model.Model, n int, rng *rand.Rand) (model.Batch, error) {
	if n < 1 {
		return model.Batch{}, fmt.Errorf("sample: n must be >= 1 (got %d)", n)
	}
	defer model.Inference(m)()

	dim := m.LatentDim()
	z := mat.NewDense(n, dim, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < dim; j++ {
			z.Set(i, j, rng.NormFloat64())
		}
	}
	return m.Decode(z)
}

// Traverse decodes a steps x steps grid spanning latent dims dimA (rows) and
// dimB (columns) at standard-normal quantiles of evenly spaced probabilities
// in [0.05, 0.95]. All other dims are zero.
func Traverse(m model.Model, dimA, dimB, steps int) (model.Batch, error) {
	dim := m.LatentDim()
	if dimA < 0 || dimA >= dim || dimB < 0 || dimB >= dim || dimA == dimB {
		return model.Batch{}, fmt.Errorf("traverse: dims %d and %d invalid for latent size %d", dimA, dimB, dim)
	}
	if steps < 1 {
		return model.Batch{}, fmt.Errorf("traverse: steps must be >= 1 (got %d)", steps)
	}
	defer model.Inference(m)()

	values := GridValues(steps)
	z := mat.NewDense(steps*steps, dim, nil)
	for i, a := range values {
		for j, b := range values {
			row := i*steps + j
			z.Set(row, dimA, a)
			z.Set(row, dimB, b)
		}
	}
	return m.Decode(z)
}

// GridValues returns the standard-normal quantiles of steps probabilities
// evenly spaced over [0.05, 0.95]. A single step maps to the median.
func GridValues(steps int) []float64 {
	std := distuv.UnitNormal
	out := make([]float64, steps)
	if steps == 1 {
		out[0] = std.Quantile(0.5)
		return out
	}
	for i := range out {
		p := 0.05 + 0.9*float64(i)/float64(steps-1)
		out[i] = std.Quantile(p)
	}
	return out
}
