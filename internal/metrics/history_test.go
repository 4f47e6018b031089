package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryBest(t *testing.T) {
	var h History
	h.Record(10, 9)
	h.Record(8, 7)
	h.Record(6, 7)
	h.Record(5, 8)

	assert.Equal(t, 4, h.Epochs())
	epoch, loss, err := h.Best()
	require.NoError(t, err)
	assert.Equal(t, 1, epoch)
	assert.Equal(t, 7.0, loss)
}

func TestHistoryBestEmpty(t *testing.T) {
	var h History
	_, _, err := h.Best()
	require.Error(t, err)
}

func TestLoadHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.yaml")
	require.NoError(t, os.WriteFile(path, []byte("train: [3.5, 2.0]\nvalidation: [4.0, 2.5]\n"), 0o644))

	h, err := LoadHistory(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{3.5, 2.0}, h.Train)
	assert.Equal(t, []float64{4.0, 2.5}, h.Validation)
}

func TestLoadHistoryMismatched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.yaml")
	require.NoError(t, os.WriteFile(path, []byte("train: [1, 2, 3]\nvalidation: [1]\n"), 0o644))

	_, err := LoadHistory(path)
	require.Error(t, err)
}

func TestLoadHistoryMissing(t *testing.T) {
	_, err := LoadHistory(filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
}
