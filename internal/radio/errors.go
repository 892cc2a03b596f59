// errors.go defines the workflow error taxonomy. Handlers map these onto HTTP
// statuses: invalid input → 400, missing credentials → 500 (generic body),
// issuer failure → 502, audit write failure → 500.
package radio

import "errors"

// ErrUnauthenticated is returned when the workflow is invoked without an
// authenticated user. The transport layer rejects such requests before the
// workflow runs; this is the belt-and-braces guard.
var ErrUnauthenticated = errors.New("authentication required")

// ErrForbidden is returned when an authenticated caller lacks the
// administrative privilege an operation requires.
var ErrForbidden = errors.New("admin privileges required")

// ErrCredentialsUnset indicates the LiveKit API key or secret is missing from
// configuration. A deployment-time fault: reported to clients only as a
// generic server error, never with detail.
var ErrCredentialsUnset = errors.New("livekit api credentials not set")

// InvalidFrequencyError reports why a client-supplied frequency was rejected.
// The message is safe to return verbatim as field-level validation detail.
type InvalidFrequencyError struct {
	Reason string
}

func (e *InvalidFrequencyError) Error() string { return e.Reason }

// UpstreamError wraps a failure from the token issuer. Surfaced to clients as
// a bad-gateway-class response carrying the issuer's message.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return e.Err.Error() }
func (e *UpstreamError) Unwrap() error { return e.Err }

// PersistenceError wraps an audit-log storage failure. A token is never
// reported as issued when its join-log row could not be written.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }
