package gateway

import "errors"

// Sentinel errors for pre-flight failures. Both fire before any network
// I/O is performed.
var (
	// ErrUntrustedHost is returned when the target URL fails the trust policy.
	ErrUntrustedHost = errors.New("gateway: untrusted host")

	// ErrRateLimited is returned when the local rate limit quota is exhausted.
	// Callers may retry after RetryAfter.
	ErrRateLimited = errors.New("gateway: rate limit exceeded")
)

// TimeoutMessage is the user-facing message substituted when a call is
// cancelled by its timeout tier. Other transport failures keep their
// underlying message verbatim.
const TimeoutMessage = "Request timeout - please try again."

// FailureKind classifies an unsuccessful Result for telemetry and
// message handling. Pre-flight failures are reported as errors, not
// Results, and have no kind.
type FailureKind int

const (
	// FailureNone means the call succeeded.
	FailureNone FailureKind = iota

	// FailureTimeout means the call was cancelled by its timeout tier.
	FailureTimeout

	// FailureTransport means the call failed below the HTTP layer.
	FailureTransport

	// FailureServer means the call completed with a non-success status.
	FailureServer
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureTimeout:
		return "timeout"
	case FailureTransport:
		return "transport"
	case FailureServer:
		return "server"
	default:
		return "unknown"
	}
}
