package pipeline

import (
	"github.com/pkg/errors"
)

var (
	ErrConfigMustBeSet  = errors.New("pipeline config must be set")
	ErrNoActivePipeline = errors.New("no active pipeline")
	ErrSessionClosed    = errors.New("session closed")
	ErrSaveInProgress   = errors.New("save already in progress")
)

// NetworkError is a failed call to the agent. The operation that triggered it is aborted
// and not retried.
type NetworkError struct {
	Op  string
	Err error
}

// NewNetworkError wraps err as a failure of the named operation.
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err}
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err comes from a call to the agent.
func IsNetworkError(err error) bool {
	var netErr *NetworkError

	return errors.As(err, &netErr)
}
