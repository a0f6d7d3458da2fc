// Package monitor implements an asynchronous peak-memory sampler. A
// sampling session is opened with Start, polls a usage provider in the
// background at a configurable interval, and is closed with Finish,
// which joins the sampler and records the peak it observed.
package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/voluzi/peaktrace/pkg/memusage"
)

type state int

const (
	stateIdle state = iota
	stateMeasuring
)

func (s state) String() string {
	if s == stateMeasuring {
		return "measuring"
	}
	return "idle"
}

// sampleResult is the one-shot handoff from the sampling goroutine
// back to Finish.
type sampleResult struct {
	max     uint64
	skipped int
	err     error
}

// Monitor drives sampling sessions against one device. A single
// logical caller is expected to drive Start and Finish; IsActive and
// SetInterval are safe to call from anywhere.
type Monitor struct {
	provider memusage.Provider
	device   memusage.Device

	// interval is read by the sampling goroutine on every tick, so it
	// lives outside the mutex.
	interval atomic.Int64

	mu     sync.Mutex
	state  state
	stop   chan struct{}
	result chan sampleResult
	series Series
}

func New(provider memusage.Provider, device memusage.Device, opts ...Option) *Monitor {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	m := &Monitor{
		provider: provider,
		device:   device,
	}
	m.SetInterval(options.SamplePower)
	return m
}

// Start opens a sampling session. If one is already open it is first
// finished and recorded, so no samples are silently lost.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == stateMeasuring {
		log.WithField("device", m.device.String()).Warn("sampling session already open, recording it before starting a new one")
		if _, err := m.finish(); err != nil {
			log.Errorf("failed to close stale sampling session: %v", err)
		}
	}

	m.stop = make(chan struct{})
	m.result = make(chan sampleResult, 1)
	m.state = stateMeasuring
	go m.sample(m.stop, m.result)
}

// Finish closes the open session, waits for the sampler to deliver its
// peak, appends it to the series and returns it. Finishing while idle
// is not a fault and returns (0, nil). A terminal provider fault is
// returned instead, with nothing appended.
func (m *Monitor) Finish() (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finish()
}

// finish expects m.mu to be held. Blocking on the result channel under
// the lock is safe: the sampling goroutine never takes the lock.
func (m *Monitor) finish() (uint64, error) {
	if m.state != stateMeasuring {
		return 0, nil
	}

	close(m.stop)
	res := <-m.result
	m.state = stateIdle

	if res.skipped > 0 {
		log.WithFields(log.Fields{
			"device":  m.device.String(),
			"skipped": res.skipped,
		}).Warn("provider faults during session, ticks skipped")
	}
	if res.err != nil {
		return 0, res.err
	}

	m.series.Append(time.Now(), res.max)
	return res.max, nil
}

func (m *Monitor) IsActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == stateMeasuring
}

// SetInterval sets the sampling period to 1/10^power seconds, floored
// at the timer resolution. It applies from the next tick, including in
// a session that is already running.
func (m *Monitor) SetInterval(power int) {
	m.interval.Store(int64(IntervalForPower(power)))
}

func (m *Monitor) Interval() time.Duration {
	return time.Duration(m.interval.Load())
}

func (m *Monitor) Device() memusage.Device {
	return m.device
}

// Series returns a copy of the recorded per-session peaks.
func (m *Monitor) Series() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.series.Snapshot()
}

// Normalize rewrites the recorded series in place, see Series.Normalize.
func (m *Monitor) Normalize() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.series.Normalize()
}

// Normalized returns a normalized copy without touching the series.
func (m *Monitor) Normalized() (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.series.Normalized()
}

// sample runs until stop is closed and then delivers the largest usage
// it saw. The first sample is taken immediately, so even a session
// closed within one tick records a real value. Provider faults skip
// the tick unless terminal; a terminal fault ends the session early
// and is delivered in place of a peak.
func (m *Monitor) sample(stop <-chan struct{}, result chan<- sampleResult) {
	var max uint64
	var skipped int

	interval := m.Interval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		used, err := m.provider.Sample(context.Background(), m.device)
		switch {
		case err == nil:
			if used > max {
				max = used
			}
		case memusage.IsTerminal(err):
			result <- sampleResult{skipped: skipped, err: err}
			return
		default:
			skipped++
			log.WithField("device", m.device.String()).Debugf("sample skipped: %v", err)
		}

		if next := m.Interval(); next != interval {
			interval = next
			ticker.Reset(interval)
		}

		select {
		case <-stop:
			result <- sampleResult{max: max, skipped: skipped}
			return
		case <-ticker.C:
		}
	}
}
