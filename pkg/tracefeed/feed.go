// Package tracefeed consumes the boundary event stream a training
// process emits, one JSON object per line, usually through a fifo.
package tracefeed

import (
	"context"
	"strings"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/containerd/fifo"
	"github.com/nxadm/tail"

	"github.com/voluzi/peaktrace/pkg/phase"
)

// Event is one boundary notification. Err carries stream or parse
// failures in-band; all other fields are meaningless when it is set.
type Event struct {
	Boundary phase.Boundary `json:"boundary"`
	Training bool           `json:"training"`
	Module   string         `json:"module,omitempty"`
	Step     int64          `json:"step,omitempty"`
	Err      error          `json:"-"`
}

type Feed struct {
	tail   *tail.Tail
	Events chan *Event
}

// NewFeed tails the event stream at path. createFifo makes the fifo
// first, for the case where the agent starts before the training
// process opens its end.
func NewFeed(path string, createFifo bool) (*Feed, error) {
	if createFifo {
		f, err := fifo.OpenFifo(context.Background(), path, syscall.O_CREAT|syscall.O_RDONLY|syscall.O_NONBLOCK, 0o655)
		if err != nil {
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
	}

	t, err := tail.TailFile(path, tail.Config{
		ReOpen: true,
		Pipe:   true,
		Follow: true,
		Logger: tail.DiscardingLogger,
	})
	if err != nil {
		return nil, err
	}

	return &Feed{
		tail:   t,
		Events: make(chan *Event),
	}, nil
}

func (f *Feed) Stop() error {
	return f.tail.Stop()
}

// Start pumps the stream into Events until the tail stops, then closes
// the channel so consumers can simply range over it.
func (f *Feed) Start() {
	defer close(f.Events)

	for line := range f.tail.Lines {
		if line.Err != nil {
			f.Events <- &Event{Err: line.Err}
			continue
		}

		if strings.TrimSpace(line.Text) == "" {
			continue
		}

		event := Event{}
		if err := json.Unmarshal([]byte(line.Text), &event); err != nil {
			f.Events <- &Event{Err: err}
		} else {
			f.Events <- &event
		}
	}
}
