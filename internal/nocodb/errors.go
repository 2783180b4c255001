// ABOUTME: Error taxonomy for NocoDB dispatch failures.
// ABOUTME: Sentinel errors for pre-flight failures, typed errors for remote and transport faults.

package nocodb

import (
	"errors"
	"fmt"
)

// ErrInvalidOperation indicates the requested operation name is not in the
// fixed operation set.
var ErrInvalidOperation = errors.New("unknown operation")

// ErrMissingArgument indicates a required argument was absent from the call.
// Wrapped with the argument name, e.g. "missing required argument: record_id".
var ErrMissingArgument = errors.New("missing required argument")

// ErrMissingCredential indicates no API token was available from either the
// caller or the server configuration.
var ErrMissingCredential = errors.New("missing API token")

// RemoteError is returned when NocoDB answers with a non-2xx status.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("nocodb returned status %d: %s", e.StatusCode, e.Body)
}

// TransportError is returned when the outbound HTTP call itself fails
// (connection refused, timeout, DNS).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("nocodb request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
