package model

import (
	"fmt"
)

// NetworkError reports a request that could not complete: connection failure,
// timeout, non-success status or an undecodable body.
type NetworkError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status code: %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// MissingFieldError reports an expected key absent from an API object.
// Index is the position of the offending crime record, or -1 when not tied to one.
type MissingFieldError struct {
	Field string
	Index int
}

func (e *MissingFieldError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("a key is missing: %s", e.Field)
	}
	return fmt.Sprintf("record %d: a key is missing: %s", e.Index, e.Field)
}
