package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds a caller needs to tell apart.
// Wrap with fmt.Errorf("...: %w", ...) and test with errors.Is.
var (
	// ErrInvalidRequest means the request could not be constructed (bad URL
	// or parameters). Never worth retrying.
	ErrInvalidRequest = errors.New("catalog: invalid request")

	// ErrTransport means the request never produced a response (DNS failure,
	// timeout, connection reset). The caller may retry manually.
	ErrTransport = errors.New("catalog: transport failure")

	// ErrBadStatus means the API answered with a non-2xx status.
	ErrBadStatus = errors.New("catalog: unexpected status")

	// ErrEmptyResponse means a success status arrived without a body where
	// one was expected.
	ErrEmptyResponse = errors.New("catalog: empty response")

	// ErrDecode means a body arrived but did not match the expected shape.
	// Terminal for that request.
	ErrDecode = errors.New("catalog: response decode mismatch")
)

// StatusError carries the HTTP status code of a non-2xx response.
// It unwraps to ErrBadStatus.
type StatusError struct {
	Code     int
	Endpoint string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog: %s returned status %d", e.Endpoint, e.Code)
}

func (e *StatusError) Unwrap() error {
	return ErrBadStatus
}

// BatchError is returned when no identifier in a batch resolved successfully.
type BatchError struct {
	FailedIDs []int
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("catalog: no movies resolved (%d failures)", len(e.FailedIDs))
}
