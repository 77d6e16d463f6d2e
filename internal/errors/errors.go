// Package errors defines the pipeline's fatal error taxonomy. Only two kinds
// of failure abort a run: the input collection being unusable (integration)
// and malformed scoring/threshold configuration. Per-row data gaps are states
// in the data model, never errors.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies a fatal pipeline failure.
type ErrorType string

const (
	ErrTypeIntegration   ErrorType = "INTEGRATION"
	ErrTypeConfiguration ErrorType = "CONFIGURATION"
)

// Sentinels for errors.Is matching. Every AppError unwraps to one of these.
var (
	ErrIntegration   = errors.New("integration failure")
	ErrConfiguration = errors.New("configuration failure")
)

// AppError is a stage-tagged fatal error.
type AppError struct {
	Type    ErrorType
	Stage   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Type, e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Stage, e.Message)
}

// Unwrap lets errors.Is match both the cause and the kind sentinel.
func (e *AppError) Unwrap() []error {
	sentinel := ErrIntegration
	if e.Type == ErrTypeConfiguration {
		sentinel = ErrConfiguration
	}
	if e.Cause != nil {
		return []error{sentinel, e.Cause}
	}
	return []error{sentinel}
}

// NewIntegrationError creates a fatal input-enumeration error for a stage.
func NewIntegrationError(stage, message string, cause error) *AppError {
	return &AppError{Type: ErrTypeIntegration, Stage: stage, Message: message, Cause: cause}
}

// NewConfigurationError creates a fatal configuration error for a stage.
func NewConfigurationError(stage, message string, cause error) *AppError {
	return &AppError{Type: ErrTypeConfiguration, Stage: stage, Message: message, Cause: cause}
}
