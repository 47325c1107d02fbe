package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrTransport", ErrTransport},
		{"ErrService", ErrService},
		{"ErrSubmissionInFlight", ErrSubmissionInFlight},
		{"ErrUnknownStrategy", ErrUnknownStrategy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &TransportError{Op: "list documents", Err: cause}

	assert.Equal(t, "list documents: connection refused", err.Error())
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrService)
}

func TestServiceError(t *testing.T) {
	err := &ServiceError{Op: "upload documents", StatusCode: 500, Detail: "disk full"}

	assert.Equal(t, "upload documents: service returned status 500: disk full", err.Error())
	assert.ErrorIs(t, err, ErrService)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrTransport)
}

func TestServiceError_NotFound(t *testing.T) {
	err := &ServiceError{Op: "delete document", StatusCode: http.StatusNotFound}

	assert.Equal(t, "delete document: service returned status 404", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrService)
}

func TestServiceError_Wrapped(t *testing.T) {
	err := fmt.Errorf("deleting: %w", &ServiceError{Op: "delete document", StatusCode: 404})

	assert.ErrorIs(t, err, ErrNotFound)

	var serr *ServiceError
	assert.ErrorAs(t, err, &serr)
	assert.Equal(t, 404, serr.StatusCode)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("question", "Please enter a question.")

	assert.Equal(t, "Please enter a question.", err.Error())
	assert.Equal(t, "question", err.Field)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidationError_Cause(t *testing.T) {
	err := &ValidationError{Field: "strategy", Message: "Unknown strategy.", Cause: ErrUnknownStrategy}

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
	assert.NotErrorIs(t, err, ErrSubmissionInFlight)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		expected string
	}{
		{"nil error", nil, MsgLoadFailed, ""},
		{"validation error", NewValidationError("files", "Please select at least one file."), MsgUploadFailed, "Please select at least one file."},
		{"transport error", &TransportError{Op: "list", Err: errors.New("eof")}, MsgLoadFailed, MsgLoadFailed},
		{"service error", &ServiceError{Op: "delete", StatusCode: 500}, MsgDeleteFailed, MsgDeleteFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UserMessage(tt.err, tt.fallback))
		})
	}
}

func TestUserError(t *testing.T) {
	assert.NoError(t, UserError(nil, MsgLoadFailed))

	verr := NewValidationError("question", "Please enter a question.")
	assert.Same(t, verr, UserError(verr, MsgQueryFailed))

	transport := &TransportError{Op: "list documents", Err: errors.New("connection refused")}
	err := UserError(transport, MsgLoadFailed)
	assert.EqualError(t, err, "Failed to load documents. (list documents: connection refused)")
	assert.ErrorIs(t, err, ErrTransport)
}
