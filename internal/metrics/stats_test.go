package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowSnapshot(t *testing.T) {
	var w Window
	w.Record(64, 20*time.Millisecond, 10*time.Millisecond, 128)
	w.Record(64, 10*time.Millisecond, 20*time.Millisecond, 64)
	snap := w.Snapshot()

	assert.InDelta(t, 2133.3333, snap.ImagesPerSec, 1)
	assert.InDelta(t, 15, snap.AvgDataMS, 1e-9)
	assert.InDelta(t, 15, snap.AvgComputeMS, 1e-9)
	assert.Equal(t, 128, snap.Samples)
	assert.Equal(t, 1.5, snap.LossPerSample)
	require.Equal(t, Window{}, w, "window was not reset")
}

func TestWindowEmptySnapshot(t *testing.T) {
	var w Window
	assert.Equal(t, Snapshot{}, w.Snapshot())
}
