// Package latent aggregates posterior parameters over a dataset and reports
// how far they sit from the standard-normal prior.
package latent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"gonum.org/v1/gonum/mat"

	"vae-lens/internal/dataset"
	"vae-lens/internal/model"
)

// Latents holds mu and logvar for every sample, row-major with Dim columns.
type Latents struct {
	Dim    int
	Mu     []float64
	LogVar []float64
}

// Len returns the number of samples.
func (l Latents) Len() int {
	if l.Dim == 0 {
		return 0
	}
	return len(l.Mu) / l.Dim
}

// Matrices returns mu and logvar as matrices. It returns nils when empty.
func (l Latents) Matrices() (mu, logvar *mat.Dense) {
	n := l.Len()
	if n == 0 {
		return nil, nil
	}
	return mat.NewDense(n, l.Dim, l.Mu), mat.NewDense(n, l.Dim, l.LogVar)
}

// Collect encodes every batch of src and concatenates the posterior
// parameters in iteration order. The model runs in Eval mode for the pass
// and its previous mode is restored on return.
func Collect(ctx context.Context, m model.Model, src dataset.Source, logEvery int) (Latents, error) {
	defer model.Inference(m)()
	src.Reset()

	out := Latents{Dim: m.LatentDim()}
	for step := 1; ; step++ {
		batch, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Latents{}, err
		}
		if batch.N == 0 {
			continue
		}
		mu, logvar, err := m.Encode(batch)
		if err != nil {
			return Latents{}, fmt.Errorf("encode batch %d: %w", step, err)
		}
		out.Mu = appendRows(out.Mu, mu)
		out.LogVar = appendRows(out.LogVar, logvar)
		if logEvery > 0 && step%logEvery == 0 {
			log.Printf("collect step=%d samples=%d", step, out.Len())
		}
	}
	return out, nil
}

func appendRows(dst []float64, m *mat.Dense) []float64 {
	rows, _ := m.Dims()
	for i := 0; i < rows; i++ {
		dst = append(dst, m.RawRowView(i)...)
	}
	return dst
}
