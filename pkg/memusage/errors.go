package memusage

import (
	"emperror.dev/errors"
)

// terminalError marks a provider fault that retrying on the next tick
// cannot recover.
type terminalError struct {
	err error
}

func (e *terminalError) Error() string {
	return e.err.Error()
}

func (e *terminalError) Unwrap() error {
	return e.err
}

// Terminal wraps err as unrecoverable. A sampling session that hits a
// terminal fault stops and reports it through Finish; any other fault
// only skips the tick it occurred on.
func Terminal(err error) error {
	if err == nil {
		return nil
	}
	return &terminalError{err: err}
}

func IsTerminal(err error) bool {
	var terminal *terminalError
	return errors.As(err, &terminal)
}
