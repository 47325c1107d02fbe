package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors represent failures the controllers react to.
// Typed errors below wrap them so callers can use errors.Is.
var (
	// ErrNotFound indicates the service does not know the requested entity.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a client-side precondition failed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTransport indicates no response was obtained from the service.
	ErrTransport = errors.New("transport failure")

	// ErrService indicates the service answered with a failure.
	ErrService = errors.New("service error")

	// ErrSubmissionInFlight indicates a question is already being answered.
	ErrSubmissionInFlight = errors.New("a question is already being answered")

	// ErrUnknownStrategy indicates a strategy outside the discovered set.
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// TransportError is a network or connectivity failure before a response arrived.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports ErrTransport as a match.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// ServiceError is a non-success response from the service.
type ServiceError struct {
	Op         string
	StatusCode int

	// Detail is the service-provided error text, if any.
	Detail string
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: service returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: service returned status %d: %s", e.Op, e.StatusCode, e.Detail)
}

// Is reports ErrService, and ErrNotFound for 404 responses.
func (e *ServiceError) Is(target error) bool {
	switch target {
	case ErrService:
		return true
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	default:
		return false
	}
}

// ValidationError is a client-side precondition failure. It never reaches the network.
type ValidationError struct {
	Field   string
	Message string

	// Cause is an optional sentinel such as ErrUnknownStrategy.
	Cause error
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap returns the cause, if any.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports ErrInvalidInput as a match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a ValidationError for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// User-facing messages shown when a remote action fails.
const (
	MsgLoadFailed   = "Failed to load documents."
	MsgUploadFailed = "Failed to upload documents. Please try again."
	MsgDeleteFailed = "Failed to delete document."
	MsgQueryFailed  = "Failed to answer the question. Please try again."

	// MsgEmptyQuestion is shown when a blank question is submitted.
	MsgEmptyQuestion = "Please enter a question."
)

// UserMessage returns the text shown for err. Validation errors show
// their own message; remote failures show the given fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return fallback
}

// UserError prefixes err with its UserMessage, keeping err in the chain.
// Validation errors are returned unchanged.
func UserError(err error, fallback string) error {
	if err == nil {
		return nil
	}
	msg := UserMessage(err, fallback)
	if msg == err.Error() {
		return err
	}
	return fmt.Errorf("%s (%w)", msg, err)
}
