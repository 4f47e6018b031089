package latent

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"vae-lens/internal/model"
)

// stubModel encodes each image as its first dim pixels with logvar 0 and
// records the mode seen by every Encode call.
type stubModel struct {
	dim       int
	mode      model.Mode
	seenModes []model.Mode
	failAt    int
	calls     int
}

func (s *stubModel) Encode(b model.Batch) (*mat.Dense, *mat.Dense, error) {
	s.calls++
	s.seenModes = append(s.seenModes, s.mode)
	if s.failAt > 0 && s.calls == s.failAt {
		return nil, nil, errors.New("boom")
	}
	mu := mat.NewDense(b.N, s.dim, nil)
	for i := 0; i < b.N; i++ {
		for j := 0; j < s.dim; j++ {
			mu.Set(i, j, b.Row(i)[j])
		}
	}
	return mu, mat.NewDense(b.N, s.dim, nil), nil
}

func (s *stubModel) Decode(z *mat.Dense) (model.Batch, error) {
	rows, cols := z.Dims()
	out := model.NewBatch(rows, 1, 1, cols)
	for i := 0; i < rows; i++ {
		mat.Row(out.Row(i), i, z)
	}
	return out, nil
}

func (s *stubModel) Forward(b model.Batch) (model.Batch, *mat.Dense, *mat.Dense, error) {
	mu, lv, err := s.Encode(b)
	return b, mu, lv, err
}

func (s *stubModel) Predict(b model.Batch) (model.Batch, error) { return b, nil }
func (s *stubModel) LatentDim() int                             { return s.dim }
func (s *stubModel) Mode() model.Mode                           { return s.mode }
func (s *stubModel) SetMode(m model.Mode)                       { s.mode = m }

func seqBatch(n, size int, start float64) model.Batch {
	b := model.NewBatch(n, 1, 1, size)
	for i := range b.Data {
		b.Data[i] = start + float64(i)
	}
	return b
}
