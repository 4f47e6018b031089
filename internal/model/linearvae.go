package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

const logvarClamp = 10.0

// LinearVAE is a single-layer dense VAE with a sigmoid decoder.
type LinearVAE struct {
	channels  int
	height    int
	width     int
	latentDim int
	wMu       *mat.Dense // inputSize x latentDim
	bMu       []float64
	wLogvar   *mat.Dense // inputSize x latentDim
	bLogvar   []float64
	wDec      *mat.Dense // latentDim x inputSize
	bDec      []float64
	mode      Mode
	rng       *rand.Rand
}

// NewLinearVAE constructs the model with random initialization.
func NewLinearVAE(channels, height, width, latentDim int, seed int64) *LinearVAE {
	if channels <= 0 {
		channels = 3
	}
	if height <= 0 {
		height = 16
	}
	if width <= 0 {
		width = 16
	}
	if latentDim <= 0 {
		latentDim = 16
	}
	rng := rand.New(rand.NewSource(seed))
	inputSize := channels * height * width
	return &LinearVAE{
		channels:  channels,
		height:    height,
		width:     width,
		latentDim: latentDim,
		wMu:       randomDense(rng, inputSize, latentDim),
		bMu:       make([]float64, latentDim),
		wLogvar:   randomDense(rng, inputSize, latentDim),
		bLogvar:   make([]float64, latentDim),
		wDec:      randomDense(rng, latentDim, inputSize),
		bDec:      make([]float64, inputSize),
		mode:      Train,
		rng:       rng,
	}
}

func randomDense(rng *rand.Rand, rows, cols int) *mat.Dense {
	scale := 1 / math.Sqrt(float64(rows))
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * scale
	}
	return mat.NewDense(rows, cols, data)
}

func (m *LinearVAE) LatentDim() int { return m.latentDim }
func (m *LinearVAE) Mode() Mode     { return m.mode }
func (m *LinearVAE) SetMode(v Mode) { m.mode = v }

// InputShape returns the [C, H, W] the model accepts.
func (m *LinearVAE) InputShape() [3]int {
	return [3]int{m.channels, m.height, m.width}
}

// Encode maps each image to the mean and log-variance of its posterior.
func (m *LinearVAE) Encode(batch Batch) (*mat.Dense, *mat.Dense, error) {
	if err := m.checkInput(batch); err != nil {
		return nil, nil, err
	}
	x := mat.NewDense(batch.N, batch.SampleSize(), batch.Data)

	var mu, logvar mat.Dense
	mu.Mul(x, m.wMu)
	logvar.Mul(x, m.wLogvar)
	mu.Apply(func(_, j int, v float64) float64 { return v + m.bMu[j] }, &mu)
	logvar.Apply(func(_, j int, v float64) float64 {
		return math.Max(-logvarClamp, math.Min(logvarClamp, v+m.bLogvar[j]))
	}, &logvar)
	return &mu, &logvar, nil
}

// Decode maps latent rows back to images with values in (0, 1).
func (m *LinearVAE) Decode(z *mat.Dense) (Batch, error) {
	rows, cols := z.Dims()
	if cols != m.latentDim {
		return Batch{}, fmt.Errorf("decode: latent has %d dims, model expects %d", cols, m.latentDim)
	}
	var out mat.Dense
	out.Mul(z, m.wDec)
	out.Apply(func(_, j int, v float64) float64 { return sigmoid(v + m.bDec[j]) }, &out)

	batch := NewBatch(rows, m.channels, m.height, m.width)
	for i := 0; i < rows; i++ {
		mat.Row(batch.Row(i), i, &out)
	}
	return batch, nil
}

// Forward encodes, draws z and decodes. In Eval mode z is the posterior mean.
func (m *LinearVAE) Forward(batch Batch) (Batch, *mat.Dense, *mat.Dense, error) {
	mu, logvar, err := m.Encode(batch)
	if err != nil {
		return Batch{}, nil, nil, err
	}
	z := mu
	if m.mode == Train {
		z = m.reparameterize(mu, logvar)
	}
	recon, err := m.Decode(z)
	if err != nil {
		return Batch{}, nil, nil, err
	}
	return recon, mu, logvar, nil
}

// Predict returns the reconstruction only.
func (m *LinearVAE) Predict(batch Batch) (Batch, error) {
	recon, _, _, err := m.Forward(batch)
	return recon, err
}

func (m *LinearVAE) reparameterize(mu, logvar *mat.Dense) *mat.Dense {
	var z mat.Dense
	z.Apply(func(i, j int, v float64) float64 {
		return v + math.Exp(0.5*logvar.At(i, j))*m.rng.NormFloat64()
	}, mu)
	return &z
}

func (m *LinearVAE) checkInput(batch Batch) error {
	if err := batch.Validate(); err != nil {
		return err
	}
	if batch.N == 0 {
		return errors.New("encode: empty batch")
	}
	if want := m.InputShape(); [3]int{batch.C, batch.H, batch.W} != want {
		return fmt.Errorf("encode: input %v does not match model %v", batch.Shape(), want)
	}
	return nil
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}
