// Package nocodb translates tool invocations into single NocoDB REST calls.
//
// # Overview
//
// The package has two pieces: a Session that owns the process-wide outbound
// HTTP client (lazily created, reused by every dispatch, recreated after
// Release), and a Client whose Dispatch method maps a named operation plus an
// argument map onto exactly one HTTP request against the NocoDB v1 API.
//
// # Operations
//
// The operation set is fixed. Metadata operations hit /api/v1/db/meta/...,
// data operations hit /api/v1/db/data/noco/{project}/{table}. Each operation
// declares its own required-argument set; dispatch validates arguments and
// the credential before any network traffic happens.
//
// # Errors
//
// Pre-flight failures are sentinel errors (ErrInvalidOperation,
// ErrMissingArgument, ErrMissingCredential). A non-2xx answer becomes a
// *RemoteError carrying the status code and body; a network-level failure
// becomes a *TransportError. Callers branch with errors.Is / errors.As.
//
// # Authentication
//
// Every request carries the API token in the xc-token header. The token is
// supplied per call so front doors can let callers override the configured
// default.
package nocodb
