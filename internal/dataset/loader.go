package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"vae-lens/internal/model"
)

// LoadOptions fixes the tensor shape every decoded image is mapped to.
type LoadOptions struct {
	BatchSize int
	Channels  int
	Height    int
	Width     int
}

func (o LoadOptions) validate() error {
	if o.BatchSize <= 0 {
		return fmt.Errorf("load: batch size must be > 0 (got %d)", o.BatchSize)
	}
	switch o.Channels {
	case 1, 3, 4:
	default:
		return fmt.Errorf("load: channels must be 1, 3 or 4 (got %d)", o.Channels)
	}
	if o.Height <= 0 || o.Width <= 0 {
		return fmt.Errorf("load: image size must be positive (got %dx%d)", o.Height, o.Width)
	}
	return nil
}

// Load decodes every record of the given shards into fixed-shape batches,
// in shard-then-record order. The last batch may be short.
func Load(ctx context.Context, paths []string, opts LoadOptions) (*Slice, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	sampleSize := opts.Channels * opts.Height * opts.Width
	var (
		batches []model.Batch
		pending []float64
		count   int
	)
	flush := func() {
		if count == 0 {
			return
		}
		batches = append(batches, model.Batch{
			N: count, C: opts.Channels, H: opts.Height, W: opts.Width, Data: pending,
		})
		pending = make([]float64, 0, opts.BatchSize*sampleSize)
		count = 0
	}
	pending = make([]float64, 0, opts.BatchSize*sampleSize)

	for _, path := range paths {
		records, errCh := StreamShard(ctx, path)
		var decodeErr error
		for rec := range records {
			if decodeErr != nil {
				continue
			}
			pixels, err := decodeImage(rec.Image, opts)
			if err != nil {
				decodeErr = fmt.Errorf("decode %s in %s: %w", rec.Key, path, err)
				continue
			}
			pending = append(pending, pixels...)
			count++
			if count == opts.BatchSize {
				flush()
			}
		}
		if err := <-errCh; err != nil {
			return nil, err
		}
		if decodeErr != nil {
			return nil, decodeErr
		}
		log.Printf("shard=%s loaded_batches=%d", path, len(batches))
	}
	flush()
	return NewSlice(batches...), nil
}

// decodeImage scales raw to Height x Width and returns CHW values in [0, 1].
func decodeImage(raw []byte, opts LoadOptions) ([]float64, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	if src.Bounds().Empty() {
		return nil, errors.New("empty image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	plane := opts.Height * opts.Width
	out := make([]float64, opts.Channels*plane)
	for y := 0; y < opts.Height; y++ {
		for x := 0; x < opts.Width; x++ {
			px := dst.RGBAAt(x, y)
			r := float64(px.R) / 255
			g := float64(px.G) / 255
			b := float64(px.B) / 255
			idx := y*opts.Width + x
			switch opts.Channels {
			case 1:
				out[idx] = (r + g + b) / 3
			case 3, 4:
				out[idx] = r
				out[plane+idx] = g
				out[2*plane+idx] = b
				if opts.Channels == 4 {
					out[3*plane+idx] = float64(px.A) / 255
				}
			}
		}
	}
	return out, nil
}
