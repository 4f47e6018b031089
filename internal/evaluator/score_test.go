package evaluator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vae-lens/internal/dataset"
	"vae-lens/internal/model"
	"vae-lens/internal/objective"
)

func TestScorePassSkipsEmptyBatches(t *testing.T) {
	m := model.NewLinearVAE(1, 2, 2, 2, 3)
	b := model.NewBatch(2, 1, 2, 2)
	for i := range b.Data {
		b.Data[i] = float64(i) / 8
	}

	total, err := scorePass(context.Background(), m, dataset.NewSlice(model.NewBatch(0, 1, 2, 2), b), 1)
	require.NoError(t, err)

	m.SetMode(model.Eval)
	recon, mu, logvar, err := m.Forward(b)
	require.NoError(t, err)
	want, err := objective.Loss(recon, b, mu, logvar)
	require.NoError(t, err)
	assert.Equal(t, want, total)
}

func TestScorePassOnlyEmptyBatches(t *testing.T) {
	m := model.NewLinearVAE(1, 2, 2, 2, 3)
	total, err := scorePass(context.Background(), m, dataset.NewSlice(model.NewBatch(0, 1, 2, 2)), 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
	assert.Equal(t, model.Train, m.Mode())
}
