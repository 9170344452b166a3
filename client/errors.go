package client

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// ErrClosed is wrapped in the TransportError returned by calls on a closed
// session.
var ErrClosed = errors.New("session closed")

// StatementError carries the server's error message verbatim. It is not
// retried.
type StatementError struct {
	Message string
}

func (e *StatementError) Error() string { return e.Message }

// ErrUnresponsive is wrapped in the TransportError a session latches once
// more than MaxUnanswered timed out calls are still owed a response.
var ErrUnresponsive = errors.New("server stopped answering")

// TimeoutError reports that no response arrived within the call's timeout.
// The statement may still have been applied on the server: its outcome is
// unknown to the client. Callers may retry; after MaxUnanswered consecutive
// unanswered calls the session fails with ErrUnresponsive instead.
type TimeoutError struct {
	SQL   string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("litesql: no response within %s (statement outcome unknown)", e.After)
}

// Timeout reports true.
func (e *TimeoutError) Timeout() bool { return true }

// Temporary reports true: a timed out call may be retried.
func (e *TimeoutError) Temporary() bool { return true }

// TransportError reports a failure of the underlying stream. The session is
// unusable afterwards.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("litesql: transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParamError reports an invalid parameter set, e.g. one mixing ordinal and
// named parameters.
type ParamError struct {
	Reason string
}

func (e *ParamError) Error() string { return "litesql: invalid parameters: " + e.Reason }
