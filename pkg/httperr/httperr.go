// Package httperr defines the closed error taxonomy surfaced by the
// repository layer: every failure is one of a small set of kinds carrying
// the HTTP status and message (or structured payload) needed for exhaustive
// handling at the call site.
package httperr

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net"
	"net/http"
)

// Kind discriminates the error variants.
type Kind int

const (
	// KindNetwork is a transport/socket failure on any single attempt.
	KindNetwork Kind = iota + 1
	// KindTimeout is a deadline exceeded on any single attempt.
	KindTimeout
	// KindAuthRefresh means a 401 persisted: the refresh attempt failed or
	// yielded no token, and the session has been cleared.
	KindAuthRefresh
	// KindClient is a mapped 4xx response (other than the handled-401 path).
	KindClient
	// KindServer is a 5xx or any unmapped status.
	KindServer
)

// String returns the stable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network_error"
	case KindTimeout:
		return "timeout_error"
	case KindAuthRefresh:
		return "auth_refresh_failed"
	case KindClient:
		return "client_error"
	case KindServer:
		return "server_error"
	}
	return "unknown"
}

// ServerErrorMessage is the generic user-facing message attached to 5xx and
// unmapped statuses.
const ServerErrorMessage = "something went wrong, please try again later"

// Error is the canonical repository error. Status is set for client and
// server kinds; Payload holds the decoded body for 422 responses.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Payload any
	cause   error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.cause != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.cause)
	case e.Status != 0:
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *Error) Unwrap() error { return e.cause }

// Network wraps a transport failure.
func Network(cause error) *Error {
	return &Error{Kind: KindNetwork, Message: "network request failed", cause: cause}
}

// Timeout wraps a deadline-exceeded failure.
func Timeout(cause error) *Error {
	return &Error{Kind: KindTimeout, Message: "request timed out", cause: cause}
}

// AuthRefreshFailed reports a 401 that survived the refresh flow.
func AuthRefreshFailed() *Error {
	return &Error{Kind: KindAuthRefresh, Status: http.StatusUnauthorized, Message: "session expired, re-authentication required"}
}

// Client reports a mapped 4xx with the message extracted from the body.
func Client(status int, message string) *Error {
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{Kind: KindClient, Status: status, Message: message}
}

// ClientPayload reports a 4xx whose decoded body is returned as a structured
// payload rather than a single message string (422 validation responses).
func ClientPayload(status int, payload any) *Error {
	return &Error{Kind: KindClient, Status: status, Message: http.StatusText(status), Payload: payload}
}

// Server reports a 5xx or unmapped status with the generic message.
func Server(status int) *Error {
	return &Error{Kind: KindServer, Status: status, Message: ServerErrorMessage}
}

// FromTransport classifies a transport-level failure: deadline exceeded and
// net timeouts become KindTimeout, everything else KindNetwork. An *Error is
// passed through unchanged.
func FromTransport(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stdErrors.As(err, &e) {
		return e
	}
	if stdErrors.Is(err, context.DeadlineExceeded) {
		return Timeout(err)
	}
	var nerr net.Error
	if stdErrors.As(err, &nerr) && nerr.Timeout() {
		return Timeout(err)
	}
	return Network(err)
}

// KindOf returns the kind of err, or 0 if err is not a repository error.
func KindOf(err error) Kind {
	var e *Error
	if stdErrors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err is a repository error of the given kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var e *Error
	if stdErrors.As(err, &e) {
		return e.Status
	}
	return 0
}
