package export

import (
	"io"
	"sync/atomic"
)

type countingReader struct {
	r     io.Reader
	count *atomic.Uint64
}

func newCountingReader(r io.Reader, count *atomic.Uint64) *countingReader {
	return &countingReader{
		r:     r,
		count: count,
	}
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.count.Add(uint64(n))
	return n, err
}
