package mlagent

import (
	"errors"
	"fmt"
)

// Sentinel errors for the local failure classes. Every error returned by a
// Client method matches exactly one of these (or RemoteError) under
// errors.Is/errors.As, with the underlying cause preserved in the chain.
var (
	// ErrInvalidArgument reports a caller-supplied input that fails a
	// precondition. Detected before any connection attempt; no partial
	// effects exist.
	ErrInvalidArgument = errors.New("mlagent: invalid argument")

	// ErrAgentUnavailable reports that no transport scope yielded a live
	// connection to the requested facet. No remote state was touched.
	ErrAgentUnavailable = errors.New("mlagent: agent unavailable")

	// ErrTransport reports a call that could not be delivered over a bound
	// connection. Unlike RemoteError, no authoritative remote answer exists.
	ErrTransport = errors.New("mlagent: transport failure")

	// ErrMalformedPayload reports a get-style result (or its embedded
	// app_info document) that could not be parsed as the expected shape.
	ErrMalformedPayload = errors.New("mlagent: malformed record payload")

	// ErrResourceRootUnavailable reports that the host environment could
	// not supply the packaging information a returned record needs.
	ErrResourceRootUnavailable = errors.New("mlagent: resource root unavailable")

	// ErrNotPackaged is returned by ResourceEnv implementations when the
	// current process is not running inside a packaged application.
	ErrNotPackaged = errors.New("mlagent: not a packaged app context")
)

// RemoteError is a nonzero status reported by the agent itself. The code
// follows the agent's own error numbering and is surfaced verbatim for
// caller diagnostics.
type RemoteError struct {
	Facet  string
	Method string
	Code   int32
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("mlagent: %s.%s: agent status %d", e.Facet, e.Method, e.Code)
}

// IsInvalidArgument reports whether err is a local precondition failure.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsUnavailable reports whether err means no scope had a live agent.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrAgentUnavailable)
}

// IsTransportFailure reports whether err is an undelivered call.
func IsTransportFailure(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsMalformedPayload reports whether err is an unparseable result payload.
func IsMalformedPayload(err error) bool {
	return errors.Is(err, ErrMalformedPayload)
}

// IsResourceRootUnavailable reports whether err is a failed
// host-environment query during packaged-path resolution.
func IsResourceRootUnavailable(err error) bool {
	return errors.Is(err, ErrResourceRootUnavailable)
}

// IsRemoteFailure reports whether the agent answered with a nonzero status.
func IsRemoteFailure(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

// RemoteCode returns the agent-reported status code carried by err, if any.
func RemoteCode(err error) (int32, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Code, true
	}
	return 0, false
}
