package ranking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"gonum.org/v1/gonum/mat"

	"vae-lens/internal/dataset"
	"vae-lens/internal/model"
	"vae-lens/internal/objective"
)

// Report is the outcome of an evaluation pass. Losses, Originals and
// Reconstructions are aligned: index i refers to the same sample in each.
type Report struct {
	Losses          []float64
	Originals       []model.Batch
	Reconstructions []model.Batch
	Ranking         Ranking
}

// Evaluate runs every batch of src through m in Eval mode, scores each sample
// with loss, flattens the batches to one-sample entries in iteration order
// and ranks the result.
func Evaluate(ctx context.Context, m model.Model, src dataset.Source, loss objective.Func, k int, logEvery int) (Report, error) {
	if k < 1 {
		return Report{}, fmt.Errorf("ranking: k must be >= 1 (got %d)", k)
	}
	defer model.Inference(m)()
	src.Reset()

	var rep Report
	for step := 1; ; step++ {
		batch, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Report{}, err
		}
		if batch.N == 0 {
			continue
		}
		recon, mu, logvar, err := m.Forward(batch)
		if err != nil {
			return Report{}, fmt.Errorf("forward batch %d: %w", step, err)
		}
		if recon.N != batch.N {
			return Report{}, fmt.Errorf("%w: batch %d has %d samples, reconstruction has %d",
				objective.ErrShapeMismatch, step, batch.N, recon.N)
		}
		muRows, dim := mu.Dims()
		lvRows, lvDim := logvar.Dims()
		if muRows != batch.N || lvRows != batch.N || lvDim != dim {
			return Report{}, fmt.Errorf("%w: batch %d has %d samples, mu %dx%d, logvar %dx%d",
				objective.ErrShapeMismatch, step, batch.N, muRows, dim, lvRows, lvDim)
		}
		for i := 0; i < batch.N; i++ {
			orig, rec := batch.Sample(i), recon.Sample(i)
			muRow := mu.Slice(i, i+1, 0, dim).(*mat.Dense)
			lvRow := logvar.Slice(i, i+1, 0, dim).(*mat.Dense)
			v, err := loss(rec, orig, muRow, lvRow)
			if err != nil {
				return Report{}, fmt.Errorf("loss batch %d sample %d: %w", step, i, err)
			}
			rep.Losses = append(rep.Losses, v)
			rep.Originals = append(rep.Originals, orig)
			rep.Reconstructions = append(rep.Reconstructions, rec)
		}
		if logEvery > 0 && step%logEvery == 0 {
			log.Printf("evaluate step=%d samples=%d", step, len(rep.Losses))
		}
	}

	r, err := Rank(rep.Losses, k)
	if err != nil {
		return Report{}, err
	}
	rep.Ranking = r
	return rep, nil
}
