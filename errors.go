package console

import "fmt"

// FlushError is the typed failure returned by Flush and Close when writing a
// drained batch to the sink fails. Written reports how many bytes of the
// batch reached the sink before the failure.
type FlushError struct {
	Written int
	Err     error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("console: flush failed after %d bytes: %v", e.Written, e.Err)
}

func (e *FlushError) Unwrap() error {
	return e.Err
}
