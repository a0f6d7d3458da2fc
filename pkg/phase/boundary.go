// Package phase sequences sampling sessions along the boundaries of a
// training iteration: sampling runs while a forward or backward pass
// is in flight and the peak is recorded when the pass ends.
package phase

import "fmt"

// Boundary identifies a point in the training loop at which the
// sampler is started or finished. The set is closed; anything else on
// the wire is a protocol error.
type Boundary int

const (
	ForwardBegin Boundary = iota
	ForwardEnd
	BackwardBegin
	BackwardEnd
	IterationEnd
)

var boundaryNames = map[Boundary]string{
	ForwardBegin:  "forward_begin",
	ForwardEnd:    "forward_end",
	BackwardBegin: "backward_begin",
	BackwardEnd:   "backward_end",
	IterationEnd:  "iteration_end",
}

func (b Boundary) String() string {
	if name, ok := boundaryNames[b]; ok {
		return name
	}
	return fmt.Sprintf("boundary(%d)", int(b))
}

// Begins reports whether this boundary opens a sampling session.
func (b Boundary) Begins() bool {
	return b == ForwardBegin || b == BackwardBegin
}

func ParseBoundary(s string) (Boundary, error) {
	for b, name := range boundaryNames {
		if name == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown boundary %q", s)
}

func (b Boundary) MarshalText() ([]byte, error) {
	name, ok := boundaryNames[b]
	if !ok {
		return nil, fmt.Errorf("unknown boundary %d", int(b))
	}
	return []byte(name), nil
}

func (b *Boundary) UnmarshalText(text []byte) error {
	parsed, err := ParseBoundary(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
