package memusage

import (
	"time"

	"github.com/voluzi/peaktrace/pkg/environ"
)

func defaultOptions() *Options {
	return &Options{
		MeminfoPath:    DefaultMeminfoPath,
		WorldSize:      environ.GetInt("LOCAL_WORLD_SIZE", 1),
		MetricsURL:     "http://localhost:9400/metrics",
		MetricFamily:   DefaultMetricFamily,
		MetricScale:    DefaultMetricScale,
		DeviceLabel:    "gpu",
		RequestTimeout: 2 * time.Second,
	}
}

type Options struct {
	// SystemProvider
	MeminfoPath string
	WorldSize   int

	// ProcessProvider
	PID         int32
	ProcessName string

	// MetricsProvider
	MetricsURL     string
	MetricFamily   string
	MetricScale    uint64
	DeviceLabel    string
	RequestTimeout time.Duration
}

type Option func(*Options)

func WithMeminfoPath(path string) Option {
	return func(opts *Options) {
		opts.MeminfoPath = path
	}
}

func WithWorldSize(n int) Option {
	return func(opts *Options) {
		opts.WorldSize = n
	}
}

func WithPID(pid int32) Option {
	return func(opts *Options) {
		opts.PID = pid
	}
}

func WithProcessName(name string) Option {
	return func(opts *Options) {
		opts.ProcessName = name
	}
}

func WithMetricsURL(url string) Option {
	return func(opts *Options) {
		opts.MetricsURL = url
	}
}

func WithMetricFamily(name string) Option {
	return func(opts *Options) {
		opts.MetricFamily = name
	}
}

func WithMetricScale(bytesPerUnit uint64) Option {
	return func(opts *Options) {
		opts.MetricScale = bytesPerUnit
	}
}

func WithDeviceLabel(name string) Option {
	return func(opts *Options) {
		opts.DeviceLabel = name
	}
}

func WithRequestTimeout(d time.Duration) Option {
	return func(opts *Options) {
		opts.RequestTimeout = d
	}
}
