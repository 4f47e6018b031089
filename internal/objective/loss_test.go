package objective

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"vae-lens/internal/model"
)

func filledBatch(n, c, h, w int, fill func(i int) float64) model.Batch {
	b := model.NewBatch(n, c, h, w)
	for i := range b.Data {
		b.Data[i] = fill(i)
	}
	return b
}

func TestKLZeroForStandardNormal(t *testing.T) {
	mu := mat.NewDense(3, 4, nil)
	logvar := mat.NewDense(3, 4, nil)
	kl, err := KL(mu, logvar)
	require.NoError(t, err)
	assert.Equal(t, 0.0, kl)
}

func TestReconstructionZeroForIdentical(t *testing.T) {
	orig := filledBatch(2, 3, 2, 2, func(i int) float64 { return float64(i) * 0.1 })
	rec, err := Reconstruction(orig, orig)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rec)
}

func TestEvaluateKnownValues(t *testing.T) {
	orig := filledBatch(1, 1, 1, 2, func(int) float64 { return 0 })
	recon := filledBatch(1, 1, 1, 2, func(i int) float64 { return float64(i + 1) })
	mu := mat.NewDense(1, 1, []float64{2})
	logvar := mat.NewDense(1, 1, []float64{0})

	terms, err := Evaluate(recon, orig, mu, logvar)
	require.NoError(t, err)
	assert.Equal(t, 5.0, terms.Reconstruction)
	assert.InDelta(t, 2.0, terms.KL, 1e-12)
	assert.InDelta(t, 7.0, terms.Total, 1e-12)
}

func TestReconstructionIsSummedNotAveraged(t *testing.T) {
	one := filledBatch(1, 1, 2, 2, func(int) float64 { return 1 })
	zero := filledBatch(1, 1, 2, 2, func(int) float64 { return 0 })
	four := filledBatch(4, 1, 2, 2, func(int) float64 { return 1 })
	fourZero := filledBatch(4, 1, 2, 2, func(int) float64 { return 0 })

	small, err := Reconstruction(one, zero)
	require.NoError(t, err)
	large, err := Reconstruction(four, fourZero)
	require.NoError(t, err)
	assert.Equal(t, 4*small, large)
}

func TestLossNonNegativeAndIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 20; trial++ {
		orig := filledBatch(3, 2, 2, 2, func(int) float64 { return rng.Float64() })
		recon := filledBatch(3, 2, 2, 2, func(int) float64 { return rng.Float64() })
		mu := mat.NewDense(3, 5, nil)
		logvar := mat.NewDense(3, 5, nil)
		for i := 0; i < 3; i++ {
			for j := 0; j < 5; j++ {
				mu.Set(i, j, rng.NormFloat64()*2)
				logvar.Set(i, j, rng.NormFloat64()*3)
			}
		}
		first, err := Loss(recon, orig, mu, logvar)
		require.NoError(t, err)
		second, err := Loss(recon, orig, mu, logvar)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, first, 0.0)
		assert.Equal(t, first, second)
	}
}

func TestShapeMismatch(t *testing.T) {
	a := model.NewBatch(2, 1, 2, 2)
	b := model.NewBatch(2, 1, 2, 3)
	mu := mat.NewDense(2, 3, nil)

	_, err := Reconstruction(a, b)
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = KL(mu, mat.NewDense(2, 4, nil))
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Evaluate(a, a, mat.NewDense(3, 3, nil), mat.NewDense(3, 3, nil))
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Loss(a, b, mu, mu)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestOverflowPropagates(t *testing.T) {
	mu := mat.NewDense(1, 1, []float64{0})
	logvar := mat.NewDense(1, 1, []float64{1000})
	kl, err := KL(mu, logvar)
	require.NoError(t, err)
	assert.True(t, math.IsInf(kl, 1))
}
