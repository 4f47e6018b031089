// Package objective computes the VAE training objective: a summed squared
// reconstruction error plus the analytic KL divergence of a diagonal Gaussian
// posterior from N(0, I).
//
// Both terms are sums over the whole batch, never means, so the value grows
// with batch size.
package objective

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"vae-lens/internal/model"
)

// ErrShapeMismatch reports inputs whose dimensions do not line up.
var ErrShapeMismatch = errors.New("objective: shape mismatch")

// Func is the signature of a loss evaluated on one batch.
type Func func(recon, original model.Batch, mu, logvar *mat.Dense) (float64, error)

// Terms holds the two parts of the objective and their sum.
type Terms struct {
	Reconstruction float64
	KL             float64
	Total          float64
}

// Evaluate computes both terms for a batch.
func Evaluate(recon, original model.Batch, mu, logvar *mat.Dense) (Terms, error) {
	rec, err := Reconstruction(recon, original)
	if err != nil {
		return Terms{}, err
	}
	kl, err := KL(mu, logvar)
	if err != nil {
		return Terms{}, err
	}
	if rows, _ := mu.Dims(); rows != original.N {
		return Terms{}, fmt.Errorf("%w: batch has %d samples, latent has %d rows", ErrShapeMismatch, original.N, rows)
	}
	return Terms{Reconstruction: rec, KL: kl, Total: rec + kl}, nil
}

// Loss returns the total objective. It satisfies Func.
func Loss(recon, original model.Batch, mu, logvar *mat.Dense) (float64, error) {
	terms, err := Evaluate(recon, original, mu, logvar)
	if err != nil {
		return 0, err
	}
	return terms.Total, nil
}

// Reconstruction returns sum((recon - original)^2) over every element.
func Reconstruction(recon, original model.Batch) (float64, error) {
	if recon.Shape() != original.Shape() {
		return 0, fmt.Errorf("%w: reconstruction %v vs original %v", ErrShapeMismatch, recon.Shape(), original.Shape())
	}
	if len(recon.Data) != len(original.Data) {
		return 0, fmt.Errorf("%w: reconstruction has %d values, original has %d", ErrShapeMismatch, len(recon.Data), len(original.Data))
	}
	diff := make([]float64, len(recon.Data))
	floats.SubTo(diff, recon.Data, original.Data)
	return floats.Dot(diff, diff), nil
}

// KL returns -0.5 * sum(1 + logvar - mu^2 - exp(logvar)) over all samples
// and latent dimensions.
func KL(mu, logvar *mat.Dense) (float64, error) {
	mr, mc := mu.Dims()
	lr, lc := logvar.Dims()
	if mr != lr || mc != lc {
		return 0, fmt.Errorf("%w: mu %dx%d vs logvar %dx%d", ErrShapeMismatch, mr, mc, lr, lc)
	}
	var sum float64
	for i := 0; i < mr; i++ {
		for j := 0; j < mc; j++ {
			m, lv := mu.At(i, j), logvar.At(i, j)
			sum += 1 + lv - m*m - math.Exp(lv)
		}
	}
	return -0.5 * sum, nil
}
