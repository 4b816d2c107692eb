// Package domainerrors provides the code-based error taxonomy shared by all
// domain, service, and transport layers.
//
// Services attach a Code to every error they return so the HTTP layer can map
// it to a status without inspecting message text. Stores return sentinel
// errors (pkg/platform/sentinel) and services translate them here.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for transport mapping and logging.
type Code string

const (
	// CodeValidation marks malformed user input (bad email, length overflow,
	// empty required field). Recoverable by resubmitting corrected input.
	CodeValidation Code = "validation"
	// CodeInvalidInput marks values rejected at trust boundaries (IDs, enum
	// names). Same HTTP mapping as CodeValidation, kept distinct for metrics.
	CodeInvalidInput Code = "invalid_input"
	// CodeBadRequest marks structurally broken requests (unparseable body).
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks lookups of entities that do not exist.
	CodeNotFound Code = "not_found"
	// CodeUnauthorized marks requests without a valid caller identity.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks callers acting on resources they do not own.
	CodeForbidden Code = "forbidden"
	// CodeConflict marks uniqueness or concurrent-update conflicts.
	CodeConflict Code = "conflict"
	// CodeInvalidOperation marks state-machine transitions that are not legal
	// from the resource's current state. The caller must re-query state; the
	// request itself was well-formed, so this maps to 400, not 500.
	CodeInvalidOperation Code = "invalid_operation"
	// CodeInvariantViolation marks broken aggregate invariants. These are
	// defects in calling code, not user errors; they surface as 500 and must
	// be logged at Error level.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInternal marks unexpected infrastructure failures.
	CodeInternal Code = "internal"
)

// Error is the concrete domain error. Construct via New or Wrap.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two domain errors by code and message so errors.Is works on
// errors constructed independently at different call sites.
func (e *Error) Is(target error) bool {
	var te *Error
	if !errors.As(target, &te) {
		return false
	}
	return e.Code == te.Code && e.Message == te.Message
}

// New creates a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is/errors.As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err or any error in its chain carries the code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if errors.As(err, &de) {
			if de.Code == code {
				return true
			}
			err = de.Err
			continue
		}
		return false
	}
	return false
}

// Is is shorthand for HasCode; reads better at call sites that branch on a
// single code.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost code in the chain, or CodeInternal when err is
// not a domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// Message returns the outermost domain message, or a generic fallback. The
// HTTP layer uses it so internal error text never leaks to clients.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		if de.Code == CodeInternal || de.Code == CodeInvariantViolation {
			return "internal error"
		}
		return de.Message
	}
	return "internal error"
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeInvalidInput, CodeBadRequest, CodeInvalidOperation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeConflict:
		return http.StatusConflict
	case CodeInvariantViolation, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
