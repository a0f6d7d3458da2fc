package monitor

import (
	"errors"
	"time"
)

var ErrEmptySeries = errors.New("series is empty")

// Series stores one entry per completed sampling session: the unix
// timestamp (in seconds) at which the session finished and the peak
// usage observed during it. Both sequences grow in lockstep.
type Series struct {
	timestamps []float64
	usages     []uint64
}

// Snapshot is a detached copy of a series, safe to hand out and to
// serialize.
type Snapshot struct {
	Timestamps []float64 `json:"timestamps"`
	Usages     []uint64  `json:"usages"`
}

func (s *Series) Append(ts time.Time, used uint64) {
	s.timestamps = append(s.timestamps, float64(ts.UnixNano())/float64(time.Second))
	s.usages = append(s.usages, used)
}

func (s *Series) Len() int {
	return len(s.usages)
}

func (s *Series) Snapshot() Snapshot {
	return Snapshot{
		Timestamps: append([]float64(nil), s.timestamps...),
		Usages:     append([]uint64(nil), s.usages...),
	}
}

// Normalize rewrites the series in place: timestamps become offsets
// from the first entry, usages become offsets from the smallest entry.
func (s *Series) Normalize() error {
	return normalize(s.timestamps, s.usages)
}

// Normalized returns a normalized copy and leaves the series untouched.
func (s *Series) Normalized() (Snapshot, error) {
	snapshot := s.Snapshot()
	if err := snapshot.Normalize(); err != nil {
		return Snapshot{}, err
	}
	return snapshot, nil
}

func (s *Snapshot) Normalize() error {
	return normalize(s.Timestamps, s.Usages)
}

func normalize(timestamps []float64, usages []uint64) error {
	if len(usages) == 0 {
		return ErrEmptySeries
	}

	start := timestamps[0]
	for i := range timestamps {
		timestamps[i] -= start
	}

	floor := usages[0]
	for _, u := range usages {
		if u < floor {
			floor = u
		}
	}
	for i := range usages {
		usages[i] -= floor
	}
	return nil
}
