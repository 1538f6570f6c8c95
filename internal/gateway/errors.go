package gateway

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway failure so screens can branch on the class of
// error instead of matching message strings.
type Kind string

const (
	KindValidation Kind = "validation" // request rejected by the service
	KindAuth       Kind = "auth"       // bad credentials or expired session
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindNetwork    Kind = "network" // transport failure
	KindTimeout    Kind = "timeout" // call exceeded the configured deadline
	KindUnknown    Kind = "unknown"
)

// Error is the only error type that crosses the gateway boundary.
// The message comes from the remote service and is not guaranteed to be
// suitable for direct display; callers map kinds to user-facing copy.
type Error struct {
	Kind    Kind
	Op      string // gateway operation, e.g. "signIn", "records.getAll"
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway: %s: %s (%s)", e.Op, e.Message, e.Kind)
	}
	return fmt.Sprintf("gateway: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.err }

// KindOf extracts the failure kind, defaulting to KindUnknown for errors
// that did not originate at the gateway boundary.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindUnknown
}

// ErrNoSession is returned by operations that require a signed-in user.
var ErrNoSession = errors.New("gateway: no active session")
