package export

import (
	"time"

	"github.com/c2h5oh/datasize"
)

const (
	DefaultBufferSize     = "1MB"
	DefaultReportPeriod   = time.Second
	DefaultConcurrentJobs = 10
)

// UploadOptions configures the behavior of bundle uploads to cloud storage.
type UploadOptions struct {
	BufferSize   datasize.ByteSize
	ReportPeriod time.Duration
	Metadata     map[string]string
}

func defaultUploadOptions() *UploadOptions {
	return &UploadOptions{
		BufferSize:   datasize.MustParseString(DefaultBufferSize),
		ReportPeriod: DefaultReportPeriod,
	}
}

// UploadOption is a functional option for configuring uploads.
type UploadOption func(*UploadOptions)

// WithBufferSize sets the buffer size for upload operations.
func WithBufferSize(size string) UploadOption {
	return func(o *UploadOptions) {
		o.BufferSize = datasize.MustParseString(size)
	}
}

// WithReportPeriod sets how often progress is reported.
func WithReportPeriod(period time.Duration) UploadOption {
	return func(o *UploadOptions) {
		o.ReportPeriod = period
	}
}

// WithMetadata attaches labels to the uploaded bundle object. Keys
// that collide with the built-in source and host labels win.
func WithMetadata(labels map[string]string) UploadOption {
	return func(o *UploadOptions) {
		o.Metadata = labels
	}
}

// DeleteOptions configures the behavior of bundle deletion from cloud storage.
type DeleteOptions struct {
	ConcurrentJobs int
}

func defaultDeleteOptions() *DeleteOptions {
	return &DeleteOptions{
		ConcurrentJobs: DefaultConcurrentJobs,
	}
}

// DeleteOption is a functional option for configuring deletions.
type DeleteOption func(*DeleteOptions)

// WithConcurrentDeleteJobs sets the number of concurrent delete workers.
func WithConcurrentDeleteJobs(concurrentJobs int) DeleteOption {
	return func(o *DeleteOptions) {
		o.ConcurrentJobs = concurrentJobs
	}
}
