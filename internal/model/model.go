package model

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrBatchShape reports a batch whose data does not fill its declared shape.
var ErrBatchShape = errors.New("model: batch data does not match shape")

// Batch is a minibatch of images laid out as [N, C, H, W] in row-major order.
type Batch struct {
	N, C, H, W int
	Data       []float64
}

// NewBatch allocates a zeroed batch of the given shape.
func NewBatch(n, c, h, w int) Batch {
	return Batch{N: n, C: c, H: h, W: w, Data: make([]float64, n*c*h*w)}
}

// Shape returns the batch dimensions as [N, C, H, W].
func (b Batch) Shape() [4]int {
	return [4]int{b.N, b.C, b.H, b.W}
}

// SampleSize is the number of elements in one image.
func (b Batch) SampleSize() int {
	return b.C * b.H * b.W
}

// Validate checks the data length against the shape.
func (b Batch) Validate() error {
	if b.N < 0 || b.C <= 0 || b.H <= 0 || b.W <= 0 {
		return fmt.Errorf("%w: shape %v", ErrBatchShape, b.Shape())
	}
	if len(b.Data) != b.N*b.SampleSize() {
		return fmt.Errorf("%w: shape %v wants %d values, got %d",
			ErrBatchShape, b.Shape(), b.N*b.SampleSize(), len(b.Data))
	}
	return nil
}

// Sample returns a one-image view of sample i. The data is shared, not copied.
func (b Batch) Sample(i int) Batch {
	size := b.SampleSize()
	return Batch{N: 1, C: b.C, H: b.H, W: b.W, Data: b.Data[i*size : (i+1)*size : (i+1)*size]}
}

// Row returns the flattened pixels of sample i as a matrix row view.
func (b Batch) Row(i int) []float64 {
	size := b.SampleSize()
	return b.Data[i*size : (i+1)*size]
}

// Mode is the model's train/eval switch.
type Mode int

const (
	// Train draws latents with the reparameterisation trick.
	Train Mode = iota
	// Eval substitutes the posterior mean for a latent sample.
	Eval
)

func (m Mode) String() string {
	switch m {
	case Train:
		return "train"
	case Eval:
		return "eval"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Model is the VAE surface used by the evaluation helpers. Latent
// parameters have one row per sample and one column per latent dimension.
type Model interface {
	Encode(batch Batch) (mu, logvar *mat.Dense, err error)
	Decode(z *mat.Dense) (Batch, error)
	Forward(batch Batch) (recon Batch, mu, logvar *mat.Dense, err error)
	Predict(batch Batch) (Batch, error)
	LatentDim() int
	Mode() Mode
	SetMode(Mode)
}

// Inference switches m to Eval and returns a func restoring the previous mode.
//
//	defer model.Inference(m)()
func Inference(m Model) (restore func()) {
	prev := m.Mode()
	m.SetMode(Eval)
	return func() { m.SetMode(prev) }
}
