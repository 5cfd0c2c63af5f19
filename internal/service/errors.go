// Package service holds the request-independent business rules: input
// validation, ownership policy and the translation of storage outcomes into
// the error kinds the HTTP layer understands.
package service

import "errors"

// Error kinds.  Every error returned by a service either wraps one of these
// or is an internal failure whose detail must not reach the client.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// Error pairs a kind with a message that is safe to show to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

// Unwrap lets errors.Is match the kind.
func (e *Error) Unwrap() error { return e.Kind }

func invalid(msg string) error      { return &Error{Kind: ErrInvalidInput, Message: msg} }
func notFound(msg string) error     { return &Error{Kind: ErrNotFound, Message: msg} }
func conflict(msg string) error     { return &Error{Kind: ErrConflict, Message: msg} }
func forbidden(msg string) error    { return &Error{Kind: ErrForbidden, Message: msg} }
func unauthorized(msg string) error { return &Error{Kind: ErrUnauthenticated, Message: msg} }

// Message returns the client-safe message of err, or "" when err carries
// none (internal errors).
func Message(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}
