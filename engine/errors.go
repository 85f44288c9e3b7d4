package engine

import "fmt"

// ProtocolError reports oracle output that does not match the expected
// textual format, or a result token outside the known vocabulary.
type ProtocolError struct {
	Reason string
	Output string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("engine: %s", e.Reason)
}

// UnavailableError reports a failure to reach the oracle process at all.
type UnavailableError struct {
	Path string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("engine: oracle %s unavailable: %v", e.Path, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }
