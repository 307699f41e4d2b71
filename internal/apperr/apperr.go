package apperr

import (
	"fmt"
	"net/http"
)

// Kind classifies a failure so the HTTP boundary can map it to a status code.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindRateLimit
	KindAuth
	KindConflict
	KindDelivery
	KindInternal
)

// Error is a tagged application error. Message is safe to show to clients;
// Err carries the internal cause and is never serialized.
type Error struct {
	Kind    Kind
	Status  int
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

func New(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message}
}

func Validation(message string) *Error {
	return New(KindValidation, http.StatusBadRequest, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, http.StatusNotFound, message)
}

func RateLimit(message string) *Error {
	return New(KindRateLimit, http.StatusBadRequest, message)
}

func Auth(message string) *Error {
	return New(KindAuth, http.StatusBadRequest, message)
}

func Conflict(message string) *Error {
	return New(KindConflict, http.StatusBadRequest, message)
}

func Delivery(message string) *Error {
	return New(KindDelivery, http.StatusInternalServerError, message)
}

// Internal wraps an unexpected failure behind a generic client message.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: "Internal Server Error", Err: err}
}
