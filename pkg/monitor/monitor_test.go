package monitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voluzi/peaktrace/pkg/memusage"
)

var cpu = memusage.Device{Kind: memusage.DeviceCPU}

// sequenceOf yields the given values in order, holding the last one
// once the sequence is exhausted, and counts calls.
func sequenceOf(calls *atomic.Int32, values ...uint64) memusage.Provider {
	return memusage.ProviderFunc(func(context.Context, memusage.Device) (uint64, error) {
		n := int(calls.Add(1))
		if n > len(values) {
			return values[len(values)-1], nil
		}
		return values[n-1], nil
	})
}

func TestMonitorRecordsPeak(t *testing.T) {
	var calls atomic.Int32
	m := New(sequenceOf(&calls, 10, 50, 30, 70), cpu, WithSamplePower(6))

	m.Start()
	assert.True(t, m.IsActive())

	require.Eventually(t, func() bool { return calls.Load() >= 4 }, time.Second, time.Millisecond)

	max, err := m.Finish()
	require.NoError(t, err)
	assert.Equal(t, uint64(70), max)
	assert.False(t, m.IsActive())

	snapshot := m.Series()
	require.Len(t, snapshot.Usages, 1)
	assert.Equal(t, uint64(70), snapshot.Usages[0])
	assert.Len(t, snapshot.Timestamps, 1)
}

func TestMonitorFinishWhileIdle(t *testing.T) {
	var calls atomic.Int32
	m := New(sequenceOf(&calls, 100), cpu)

	max, err := m.Finish()
	require.NoError(t, err)
	assert.Zero(t, max)
	assert.Zero(t, m.Series().Usages)

	// A session followed by a second Finish behaves the same way.
	m.Start()
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond)
	_, err = m.Finish()
	require.NoError(t, err)

	max, err = m.Finish()
	require.NoError(t, err)
	assert.Zero(t, max)
	assert.Len(t, m.Series().Usages, 1)
}

func TestMonitorStartWhileMeasuring(t *testing.T) {
	var calls atomic.Int32
	m := New(sequenceOf(&calls, 100, 200), cpu, WithSamplePower(6))

	m.Start()
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond)

	// The open session is recorded before starting the new one.
	m.Start()
	assert.True(t, m.IsActive())
	assert.Len(t, m.Series().Usages, 1)

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	_, err := m.Finish()
	require.NoError(t, err)
	assert.Len(t, m.Series().Usages, 2)
}

func TestMonitorTerminalFault(t *testing.T) {
	var calls atomic.Int32
	provider := memusage.ProviderFunc(func(context.Context, memusage.Device) (uint64, error) {
		if calls.Add(1) >= 3 {
			return 0, memusage.Terminal(errors.New("device is gone"))
		}
		return 100, nil
	})
	m := New(provider, cpu, WithSamplePower(6))

	m.Start()
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)

	_, err := m.Finish()
	require.Error(t, err)
	assert.True(t, memusage.IsTerminal(err))
	assert.False(t, m.IsActive())

	// The failed session leaves no entry behind.
	assert.Zero(t, m.Series().Usages)
}

func TestMonitorSkipsFaultyTicks(t *testing.T) {
	var calls atomic.Int32
	provider := memusage.ProviderFunc(func(context.Context, memusage.Device) (uint64, error) {
		n := calls.Add(1)
		if n%2 == 0 {
			return 0, errors.New("transient scrape failure")
		}
		return uint64(n) * 100, nil
	})
	m := New(provider, cpu, WithSamplePower(6))

	m.Start()
	require.Eventually(t, func() bool { return calls.Load() >= 6 }, time.Second, time.Millisecond)

	max, err := m.Finish()
	require.NoError(t, err)
	assert.NotZero(t, max)
	assert.Len(t, m.Series().Usages, 1)
}

func TestMonitorFinishIsPrompt(t *testing.T) {
	var calls atomic.Int32
	// One sample per second: Finish must not wait out the tick.
	m := New(sequenceOf(&calls, 42), cpu, WithSamplePower(0))

	m.Start()
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond)

	started := time.Now()
	max, err := m.Finish()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), max)
	assert.Less(t, time.Since(started), 500*time.Millisecond)
}

func TestIntervalForPower(t *testing.T) {
	tests := []struct {
		power    int
		expected time.Duration
	}{
		{power: 0, expected: time.Second},
		{power: 1, expected: 100 * time.Millisecond},
		{power: 2, expected: 10 * time.Millisecond},
		{power: 3, expected: time.Millisecond},
		{power: 9, expected: time.Nanosecond},
		{power: 10, expected: time.Nanosecond},
		{power: -1, expected: 10 * time.Second},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, IntervalForPower(test.power), "power %d", test.power)
	}
}

func TestMonitorSetInterval(t *testing.T) {
	var calls atomic.Int32
	m := New(sequenceOf(&calls, 1), cpu)
	assert.Equal(t, 10*time.Millisecond, m.Interval())

	m.SetInterval(3)
	assert.Equal(t, time.Millisecond, m.Interval())

	// Applies to a session that is already running.
	m.Start()
	m.SetInterval(6)
	assert.Equal(t, time.Microsecond, m.Interval())
	require.Eventually(t, func() bool { return calls.Load() >= 10 }, time.Second, time.Millisecond)
	_, err := m.Finish()
	require.NoError(t, err)

	assert.Equal(t, cpu, m.Device())
}
