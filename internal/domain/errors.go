package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Review engine errors
	ErrTransport        ErrorCode = "TRANSPORT_ERROR"
	ErrEmptyCompletion  ErrorCode = "EMPTY_COMPLETION"
	ErrGenerationFailed ErrorCode = "GENERATION_FAILED"
	ErrPersistence      ErrorCode = "PERSISTENCE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

// NewTransportError wraps a network/HTTP failure from the chat completion endpoint.
func NewTransportError(err error) *DomainError {
	return NewError(ErrTransport, "Chat completion request failed", err)
}

// NewEmptyCompletionError reports a successful exchange whose body carried no usable text.
func NewEmptyCompletionError() *DomainError {
	return NewError(ErrEmptyCompletion, "Chat completion returned no content", nil)
}

// NewGenerationFailedError reports model output that could not be shaped into a question.
func NewGenerationFailedError(message string) *DomainError {
	return NewError(ErrGenerationFailed, message, nil)
}

func NewPersistenceError(err error) *DomainError {
	return NewError(ErrPersistence, "Failed to persist quiz result", err)
}
