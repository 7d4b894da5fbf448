package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeResourceMissing       ErrorType = "resource_missing"
	ErrorTypeStructuralViolation   ErrorType = "structural_violation"
	ErrorTypeUnresolvedPlaceholder ErrorType = "unresolved_placeholder"
	ErrorTypeOutputCollision       ErrorType = "output_collision"
	ErrorTypeConfigIncomplete      ErrorType = "config_incomplete"
	ErrorTypeValidation            ErrorType = "validation"
	ErrorTypeIO                    ErrorType = "io"
	ErrorTypeInternal              ErrorType = "internal"
)

// SpecError is a structured error type with context.
type SpecError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Component   string
	Path        string
	Suggestions []ErrorSuggestion
}

// Error implements the error interface.
func (e *SpecError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	if e.Path != "" {
		parts = append(parts, e.Path)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *SpecError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *SpecError) Is(target error) bool {
	var t *SpecError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *SpecError) WithContext(key string, value interface{}) *SpecError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithPath records the file the error refers to.
func (e *SpecError) WithPath(path string) *SpecError {
	e.Path = path

	return e
}

// WithComponent adds component context.
func (e *SpecError) WithComponent(component string) *SpecError {
	e.Component = component

	return e
}

// WithSuggestions attaches remediation hints.
func (e *SpecError) WithSuggestions(suggestions ...ErrorSuggestion) *SpecError {
	e.Suggestions = append(e.Suggestions, suggestions...)

	return e
}

// Common error codes.
const (
	ErrCodeTemplateNotFound  = "ERR_TEMPLATE_NOT_FOUND"
	ErrCodeFileNotFound      = "ERR_FILE_NOT_FOUND"
	ErrCodeUnknownType       = "ERR_UNKNOWN_TEMPLATE_TYPE"
	ErrCodeConfigInvalid     = "ERR_CONFIG_INVALID"
	ErrCodeOutputExists      = "ERR_OUTPUT_EXISTS"
	ErrCodeInvalidName       = "ERR_INVALID_NAME"
	ErrCodeStructure         = "ERR_STRUCTURE"
	ErrCodeUnresolved        = "ERR_UNRESOLVED_PLACEHOLDER"
	ErrCodePermissionDenied  = "ERR_PERMISSION_DENIED"
	ErrCodeWriteFailed       = "ERR_WRITE_FAILED"
	ErrCodeValidationFailed  = "ERR_VALIDATION_FAILED"
	ErrCodeInternalError     = "ERR_INTERNAL"
	ErrCodeOperationCanceled = "ERR_CANCELED"
)

// NewResourceMissingError reports a template, example or spec file that cannot be read.
func NewResourceMissingError(code, message string, cause error) *SpecError {
	return &SpecError{
		Type:    ErrorTypeResourceMissing,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewStructuralError reports a document that breaks a structural rule.
func NewStructuralError(message string) *SpecError {
	return &SpecError{
		Type:    ErrorTypeStructuralViolation,
		Code:    ErrCodeStructure,
		Message: message,
	}
}

// NewUnresolvedError reports placeholders left in a generated document.
func NewUnresolvedError(names []string) *SpecError {
	return &SpecError{
		Type:    ErrorTypeUnresolvedPlaceholder,
		Code:    ErrCodeUnresolved,
		Message: "Unresolved placeholders: " + strings.Join(names, ", "),
	}
}

// NewOutputCollisionError reports a generation target that already exists.
func NewOutputCollisionError(path string) *SpecError {
	return &SpecError{
		Type:    ErrorTypeOutputCollision,
		Code:    ErrCodeOutputExists,
		Message: "output file already exists",
		Path:    path,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *SpecError {
	return &SpecError{
		Type:    ErrorTypeConfigIncomplete,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates an input validation error.
func NewValidationError(code, message string) *SpecError {
	return &SpecError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *SpecError {
	return &SpecError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *SpecError {
	return &SpecError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// TypeOf returns the category of err, or the empty string for foreign errors.
func TypeOf(err error) ErrorType {
	var se *SpecError
	if errors.As(err, &se) {
		return se.Type
	}

	return ""
}

// IsResourceMissing checks if an error is a missing file error.
func IsResourceMissing(err error) bool {
	return TypeOf(err) == ErrorTypeResourceMissing
}

// IsOutputCollision checks if an error is an existing-output error.
func IsOutputCollision(err error) bool {
	return TypeOf(err) == ErrorTypeOutputCollision
}

// IsConfigIncomplete checks if an error is a configuration error.
func IsConfigIncomplete(err error) bool {
	return TypeOf(err) == ErrorTypeConfigIncomplete
}

// IsValidation checks if an error is an input validation error.
func IsValidation(err error) bool {
	return TypeOf(err) == ErrorTypeValidation
}

// ErrorHandler provides centralized error handling.
type ErrorHandler struct {
	logger Logger
}

// Logger interface for error logging.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs err at a level chosen by its type.
func (h *ErrorHandler) Handle(ctx context.Context, err error) {
	if err == nil || h.logger == nil {
		return
	}

	var se *SpecError
	if !errors.As(err, &se) {
		h.logger.Error(ctx, err, "Unhandled error occurred")

		return
	}

	switch se.Type {
	case ErrorTypeValidation, ErrorTypeOutputCollision, ErrorTypeStructuralViolation,
		ErrorTypeUnresolvedPlaceholder:
		h.logger.Warn(ctx, err, "Operation rejected",
			"type", se.Type,
			"code", se.Code,
			"path", se.Path)
	default:
		h.logger.Error(ctx, err, "Error occurred",
			"type", se.Type,
			"code", se.Code,
			"component", se.Component,
			"path", se.Path)
	}
}
