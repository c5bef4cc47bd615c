// Package apperr defines the service-level error taxonomy. Every anticipated
// failure is converted to an *Error before it reaches a controller, and the
// controller renders it as the {EM, EC, DT} envelope.
package apperr

import "fmt"

// Code is the envelope error code (EC). Zero is success, positive codes are
// client-input errors, -1 is not-found/denied, -2 an unexpected internal
// failure.
type Code int

const (
	CodeOK            Code = 0
	CodeValidation    Code = 1
	CodeConflict      Code = 2
	CodeShortPassword Code = 3
	CodeNotFound      Code = -1
	CodeInternal      Code = -2
)

// Error carries a code and a user-facing message. The wrapped cause, if any,
// is logged at the boundary and never returned to the caller verbatim.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports missing or malformed input (EC=1).
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Conflict reports a business-rule conflict such as exhausted inventory or a
// duplicate unique field (EC=2).
func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// NotFound reports a missing resource or denied access (EC=-1). The two are
// intentionally conflated so callers cannot probe for existence.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// Internal wraps an unexpected failure (EC=-2).
func Internal(msg string, err error) *Error {
	return &Error{Code: CodeInternal, Message: msg, Err: err}
}

// WithCode builds an error with an explicit code, for the few legacy codes
// outside the common four (e.g. the short-password check).
func WithCode(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// CodeOf extracts the envelope code from err. A nil error is CodeOK and any
// non-taxonomy error maps to CodeInternal.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return CodeInternal
}

// MessageOf extracts the user-facing message from err, hiding the cause of
// anything outside the taxonomy.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := err.(*Error); ok {
		return e.Message
	}
	return "Something went wrong"
}
