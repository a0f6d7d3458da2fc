package agent

import (
	"time"

	"github.com/voluzi/peaktrace/pkg/memusage"
	"github.com/voluzi/peaktrace/pkg/monitor"
)

// Provider kinds the agent knows how to assemble.
const (
	AutoProvider    = "auto"
	SystemProvider  = "system"
	ProcessProvider = "process"
	MetricsProvider = "metrics"
)

const (
	DefaultPort          = 8188
	DefaultFeedPath      = "/var/run/peaktrace/boundaries"
	DefaultOutputDir     = "/var/lib/peaktrace"
	DefaultUsageCacheTTL = 500 * time.Millisecond
)

func defaultOptions() *Options {
	return &Options{
		Host:          "0.0.0.0",
		Port:          DefaultPort,
		Device:        "cpu",
		Provider:      AutoProvider,
		FeedPath:      DefaultFeedPath,
		CreateFifo:    true,
		OutputDir:     DefaultOutputDir,
		SamplePower:   monitor.DefaultSamplePower,
		UsageCacheTTL: DefaultUsageCacheTTL,
	}
}

type Options struct {
	Host          string
	Port          int
	Device        string
	Provider      string
	FeedPath      string
	CreateFifo    bool
	OutputDir     string
	ConfigFile    string
	SamplePower   int
	UsageCacheTTL time.Duration

	MeminfoPath  string
	WorldSize    int
	PID          int32
	ProcessName  string
	MetricsURL   string
	MetricFamily string
	MetricScale  uint64

	// CustomProvider bypasses provider assembly entirely.
	CustomProvider memusage.Provider
}

type Option func(*Options)

func WithHost(host string) Option {
	return func(opts *Options) {
		opts.Host = host
	}
}

func WithPort(port int) Option {
	return func(opts *Options) {
		opts.Port = port
	}
}

func WithDevice(device string) Option {
	return func(opts *Options) {
		opts.Device = device
	}
}

func WithProviderKind(kind string) Option {
	return func(opts *Options) {
		opts.Provider = kind
	}
}

func WithFeedPath(path string) Option {
	return func(opts *Options) {
		opts.FeedPath = path
	}
}

func WithCreateFifo(create bool) Option {
	return func(opts *Options) {
		opts.CreateFifo = create
	}
}

func WithOutputDir(dir string) Option {
	return func(opts *Options) {
		opts.OutputDir = dir
	}
}

func WithConfigFile(path string) Option {
	return func(opts *Options) {
		opts.ConfigFile = path
	}
}

func WithSamplePower(power int) Option {
	return func(opts *Options) {
		opts.SamplePower = power
	}
}

func WithUsageCacheTTL(ttl time.Duration) Option {
	return func(opts *Options) {
		opts.UsageCacheTTL = ttl
	}
}

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

func WithProvider(provider memusage.Provider) Option {
	return func(opts *Options) {
		opts.CustomProvider = provider
	}
}
