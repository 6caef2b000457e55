package domain

import "errors"

// ErrorKind discriminates the failure taxonomy of the request pipeline.
// Callers branch on the kind; Message is what a UI renders.
type ErrorKind string

const (
	// Local failures, raised before any network I/O.
	KindInvalidEndpoint ErrorKind = "invalid_endpoint"
	KindEncoding        ErrorKind = "encoding"

	// Decoding and HTTP status failures.
	KindDecode               ErrorKind = "decode"
	KindUnauthorized         ErrorKind = "unauthorized"
	KindAuthenticationFailed ErrorKind = "authentication_failed"
	KindBadRequest           ErrorKind = "bad_request"
	KindForbidden            ErrorKind = "forbidden"
	KindConflict             ErrorKind = "conflict"
	KindServerError          ErrorKind = "server_error"
	KindUnknownStatus        ErrorKind = "unknown_status"

	// Backend business error delivered inside a 200 envelope.
	KindAPI ErrorKind = "api"

	// Transport-level failure, no usable response.
	KindConnectionFailed ErrorKind = "connection_failed"
)

// Error is the single error type surfaced by the request pipeline.
// Code is only meaningful for KindAPI (the backend business code).
type Error struct {
	Kind    ErrorKind
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match two pipeline errors by kind alone, so tests and
// callers can compare against a bare &Error{Kind: ...} probe.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && (t.Code == 0 || t.Code == e.Code)
}

// NewError builds a pipeline error of the given kind.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// NewAPIError builds a backend business error from an error envelope.
func NewAPIError(code int, msg string) *Error {
	return &Error{Kind: KindAPI, Code: code, Message: msg}
}

// NewConnectionError builds a transport failure with a human-readable reason,
// wrapping the underlying transport error.
func NewConnectionError(reason string, cause error) *Error {
	return &Error{Kind: KindConnectionFailed, Message: reason, Err: cause}
}

// KindOf extracts the ErrorKind from err, or "" when err did not come out of
// the request pipeline.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
