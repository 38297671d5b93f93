package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")

	ErrProcessing      = errors.New("artifact is still processing")
	ErrPipelineFailed  = errors.New("artifact pipeline failed")
	ErrExternalService = errors.New("external service error")

	ErrInvalidKeyFormat = errors.New("invalid key format")
	ErrInvalidFilename  = errors.New("invalid filename")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// ProcessingError reports an artifact that has not reached a terminal state.
type ProcessingError struct {
	Status ArtifactStatus
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("artifact is still processing (status %s)", e.Status)
}

func (e *ProcessingError) Unwrap() error { return ErrProcessing }

// PipelineFailedError carries the failure recorded on a FAILED artifact.
type PipelineFailedError struct {
	Code    string
	Message string
}

func (e *PipelineFailedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("artifact pipeline failed: %s", e.Code)
	}
	return fmt.Sprintf("artifact pipeline failed: %s: %s", e.Code, e.Message)
}

func (e *PipelineFailedError) Unwrap() error { return ErrPipelineFailed }

// SummaryPayloadValidationError is returned when summarizer output does not
// match the summary schema. It does not unwrap to ErrValidation.
type SummaryPayloadValidationError struct {
	Message string
}

func (e *SummaryPayloadValidationError) Error() string { return e.Message }

// StageError is returned by a pipeline stage after the failure has been
// recorded on the artifact. Unwrap exposes the original cause.
type StageError struct {
	Stage string
	Code  string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Code, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
