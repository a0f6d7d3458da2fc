package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesAppend(t *testing.T) {
	var series Series
	assert.Equal(t, 0, series.Len())

	now := time.Now()
	series.Append(now, 100)
	series.Append(now.Add(time.Second), 200)

	assert.Equal(t, 2, series.Len())
	snapshot := series.Snapshot()
	require.Len(t, snapshot.Timestamps, 2)
	require.Len(t, snapshot.Usages, 2)
	assert.Equal(t, []uint64{100, 200}, snapshot.Usages)
	assert.InDelta(t, float64(now.UnixNano())/float64(time.Second), snapshot.Timestamps[0], 1e-6)
	assert.InDelta(t, 1.0, snapshot.Timestamps[1]-snapshot.Timestamps[0], 1e-6)
}

func TestSeriesNormalize(t *testing.T) {
	tests := []struct {
		name               string
		timestamps         []float64
		usages             []uint64
		expectedTimestamps []float64
		expectedUsages     []uint64
	}{
		{
			name:               "offsets from first timestamp and smallest usage",
			timestamps:         []float64{5, 8, 10},
			usages:             []uint64{200, 150, 300},
			expectedTimestamps: []float64{0, 3, 5},
			expectedUsages:     []uint64{50, 0, 150},
		},
		{
			name:               "single entry collapses to zero",
			timestamps:         []float64{42},
			usages:             []uint64{1000},
			expectedTimestamps: []float64{0},
			expectedUsages:     []uint64{0},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			series := Series{timestamps: test.timestamps, usages: test.usages}
			require.NoError(t, series.Normalize())
			assert.Equal(t, test.expectedTimestamps, series.timestamps)
			assert.Equal(t, test.expectedUsages, series.usages)
		})
	}
}

func TestSeriesNormalizeEmpty(t *testing.T) {
	var series Series
	assert.ErrorIs(t, series.Normalize(), ErrEmptySeries)

	var snapshot Snapshot
	assert.ErrorIs(t, snapshot.Normalize(), ErrEmptySeries)
}

func TestSeriesNormalizedDoesNotMutate(t *testing.T) {
	series := Series{
		timestamps: []float64{5, 8, 10},
		usages:     []uint64{200, 150, 300},
	}

	normalized, err := series.Normalized()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 3, 5}, normalized.Timestamps)
	assert.Equal(t, []uint64{50, 0, 150}, normalized.Usages)

	// The owner's state is untouched.
	assert.Equal(t, []float64{5, 8, 10}, series.timestamps)
	assert.Equal(t, []uint64{200, 150, 300}, series.usages)
}

func TestSeriesSnapshotIsDetached(t *testing.T) {
	series := Series{
		timestamps: []float64{1, 2},
		usages:     []uint64{10, 20},
	}

	snapshot := series.Snapshot()
	snapshot.Usages[0] = 999
	snapshot.Timestamps[0] = 999

	assert.Equal(t, []uint64{10, 20}, series.usages)
	assert.Equal(t, []float64{1, 2}, series.timestamps)
}
