package monitor

import "time"

// DefaultSamplePower yields a 10ms sampling period, frequent enough to
// catch allocation spikes inside a single forward or backward pass
// without burning a core on provider calls.
const DefaultSamplePower = 2

func defaultOptions() *Options {
	return &Options{
		SamplePower: DefaultSamplePower,
	}
}

type Options struct {
	SamplePower int
}

type Option func(*Options)

func WithSamplePower(power int) Option {
	return func(opts *Options) {
		opts.SamplePower = power
	}
}

// IntervalForPower converts a sampling power to a period of 1/10^power
// seconds. Powers beyond the nanosecond resolution of the timer are
// floored at 1ns.
func IntervalForPower(power int) time.Duration {
	interval := time.Second
	for i := 0; i < power; i++ {
		interval /= 10
	}
	for i := 0; i > power; i-- {
		interval *= 10
	}
	if interval < time.Nanosecond {
		interval = time.Nanosecond
	}
	return interval
}
