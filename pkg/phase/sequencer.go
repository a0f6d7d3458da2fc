package phase

import (
	"fmt"
	"io"

	"github.com/c2h5oh/datasize"

	"github.com/voluzi/peaktrace/pkg/export"
	"github.com/voluzi/peaktrace/pkg/monitor"
)

// Sequencer drives a monitor from training-loop boundaries. It owns no
// state of its own; it only translates boundary events into Start and
// Finish calls.
type Sequencer struct {
	monitor *monitor.Monitor
}

func NewSequencer(m *monitor.Monitor) *Sequencer {
	return &Sequencer{monitor: m}
}

// Observe dispatches one boundary event. Events observed outside
// training are no-ops, so hooks can stay installed during evaluation
// without cost. Begin boundaries open a session, implicitly recording
// a stale one; end boundaries record the open session and are no-ops
// when none is open. Terminal provider faults surface here.
func (s *Sequencer) Observe(b Boundary, training bool) error {
	if !training {
		return nil
	}

	switch b {
	case ForwardBegin, BackwardBegin:
		s.monitor.Start()
		return nil
	case ForwardEnd, BackwardEnd, IterationEnd:
		_, err := s.monitor.Finish()
		return err
	default:
		return fmt.Errorf("unknown boundary %d", int(b))
	}
}

// Export writes the recorded series to path without mutating it.
func (s *Sequencer) Export(path string) error {
	return export.WriteSeries(path, s.monitor.Series())
}

// Normalize rewrites the recorded series to offsets, in place.
func (s *Sequencer) Normalize() error {
	return s.monitor.Normalize()
}

// Report renders a normalized view of the series without mutating it.
func (s *Sequencer) Report(w io.Writer) error {
	snapshot, err := s.monitor.Normalized()
	if err != nil {
		return err
	}
	return WriteReport(w, snapshot)
}

// WriteReport renders a snapshot as an aligned offset table, one line
// per recorded session.
func WriteReport(w io.Writer, snapshot monitor.Snapshot) error {
	if _, err := fmt.Fprintf(w, "%-14s %s\n", "OFFSET(S)", "PEAK USAGE"); err != nil {
		return err
	}
	for i := range snapshot.Usages {
		usage := datasize.ByteSize(snapshot.Usages[i]).HumanReadable()
		if _, err := fmt.Fprintf(w, "%-14.3f %s\n", snapshot.Timestamps[i], usage); err != nil {
			return err
		}
	}
	return nil
}
