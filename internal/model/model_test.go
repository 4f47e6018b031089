package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchValidate(t *testing.T) {
	require.NoError(t, NewBatch(2, 3, 4, 4).Validate())

	bad := Batch{N: 2, C: 1, H: 2, W: 2, Data: make([]float64, 7)}
	require.ErrorIs(t, bad.Validate(), ErrBatchShape)
}

func TestBatchSampleSharesData(t *testing.T) {
	b := NewBatch(3, 1, 1, 2)
	for i := range b.Data {
		b.Data[i] = float64(i)
	}
	s := b.Sample(1)
	assert.Equal(t, [4]int{1, 1, 1, 2}, s.Shape())
	assert.Equal(t, []float64{2, 3}, s.Data)

	s.Data[0] = 42
	assert.Equal(t, 42.0, b.Data[2])
}

func TestInferenceRestoresMode(t *testing.T) {
	m := NewLinearVAE(1, 2, 2, 2, 1)
	require.Equal(t, Train, m.Mode())

	restore := Inference(m)
	assert.Equal(t, Eval, m.Mode())
	restore()
	assert.Equal(t, Train, m.Mode())

	m.SetMode(Eval)
	Inference(m)()
	assert.Equal(t, Eval, m.Mode())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "train", Train.String())
	assert.Equal(t, "eval", Eval.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}
