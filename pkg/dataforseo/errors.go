package dataforseo

import "fmt"

// FetchError is the typed failure surfaced for any upstream call. It
// carries the logical operation and the endpoint so callers can report
// which collaborator failed without string-matching messages.
type FetchError struct {
	Op       string
	Endpoint string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("dataforseo %s (%s): %v", e.Op, e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func fetchErr(op, endpoint string, err error) *FetchError {
	return &FetchError{Op: op, Endpoint: endpoint, Err: err}
}
