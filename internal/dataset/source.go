package dataset

import (
	"context"
	"io"

	"vae-lens/internal/model"
)

// Source yields batches in a stable order. Next returns io.EOF once the
// pass is exhausted; Reset rewinds to the first batch.
type Source interface {
	Reset()
	Next(ctx context.Context) (model.Batch, error)
}

// Slice is an in-memory Source.
type Slice struct {
	batches []model.Batch
	pos     int
}

// NewSlice wraps batches as a Source.
func NewSlice(batches ...model.Batch) *Slice {
	return &Slice{batches: batches}
}

func (s *Slice) Reset() { s.pos = 0 }

func (s *Slice) Next(ctx context.Context) (model.Batch, error) {
	if err := ctx.Err(); err != nil {
		return model.Batch{}, err
	}
	if s.pos >= len(s.batches) {
		return model.Batch{}, io.EOF
	}
	b := s.batches[s.pos]
	s.pos++
	return b, nil
}

// Batches returns the number of batches.
func (s *Slice) Batches() int { return len(s.batches) }

// Len returns the total number of samples across all batches.
func (s *Slice) Len() int {
	n := 0
	for _, b := range s.batches {
		n += b.N
	}
	return n
}
