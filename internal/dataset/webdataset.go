package dataset

import (
	"archive/tar"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Record is one keyed entry from a WebDataset shard. Label is nil when the
// shard carries no .cls member for the key.
type Record struct {
	Key   string
	Image []byte
	Label *int
}

// ErrIncompleteRecord indicates a key with metadata but no image payload.
var ErrIncompleteRecord = errors.New("webdataset: record without image")

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".bmp": true, ".webp": true,
}

// StreamShard streams records from the shard at path in archive order.
// Members of one record must be adjacent, as WebDataset writers produce them.
func StreamShard(ctx context.Context, path string) (<-chan Record, <-chan error) {
	out := make(chan Record)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		f, err := os.Open(path)
		if err != nil {
			errCh <- fmt.Errorf("open shard: %w", err)
			return
		}
		defer f.Close()

		tr := tar.NewReader(bufio.NewReader(f))
		var current *Record

		emit := func() error {
			if current == nil {
				return nil
			}
			rec := *current
			current = nil
			if len(rec.Image) == 0 {
				return fmt.Errorf("%w: %s", ErrIncompleteRecord, rec.Key)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case out <- rec:
				return nil
			}
		}

		for {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			default:
			}

			hdr, err := tr.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				errCh <- fmt.Errorf("read tar: %w", err)
				return
			}
			if hdr.FileInfo().IsDir() {
				continue
			}
			name := filepath.Base(hdr.Name)
			ext := strings.ToLower(filepath.Ext(name))
			key := strings.TrimSuffix(name, filepath.Ext(name))
			if !imageExts[ext] && ext != ".cls" {
				continue
			}

			if current != nil && current.Key != key {
				if err := emit(); err != nil {
					errCh <- err
					return
				}
			}
			if current == nil {
				current = &Record{Key: key}
			}

			payload, err := io.ReadAll(tr)
			if err != nil {
				errCh <- fmt.Errorf("read %s: %w", name, err)
				return
			}
			if ext == ".cls" {
				label, err := strconv.Atoi(strings.TrimSpace(string(payload)))
				if err != nil {
					errCh <- fmt.Errorf("parse label %s: %w", name, err)
					return
				}
				current.Label = &label
				continue
			}
			current.Image = payload
		}

		if err := emit(); err != nil {
			errCh <- err
		}
	}()

	return out, errCh
}
