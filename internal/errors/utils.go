package errors

import (
	"errors"
	"os"
)

// Wrap wraps an error with additional context, creating a SpecError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *SpecError {
	if err == nil {
		return nil
	}

	var se *SpecError
	if errors.As(err, &se) {
		return &SpecError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       se,
			Context:     se.Context,
			Component:   se.Component,
			Path:        se.Path,
			Suggestions: se.Suggestions,
		}
	}

	return &SpecError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// WrapWithContext wraps an error with context information
func WrapWithContext(err error, errType ErrorType, code, message string, context map[string]interface{}) *SpecError {
	specErr := Wrap(err, errType, code, message)
	if specErr != nil {
		specErr.Context = context
	}
	return specErr
}

// WrapIO wraps an error as an I/O error
func WrapIO(err error, code, message string) *SpecError {
	return Wrap(err, ErrorTypeIO, code, message)
}

// WrapFileRead classifies a failed read of path. A missing file becomes
// resource_missing; anything else stays an I/O error.
func WrapFileRead(err error, path string) *SpecError {
	if err == nil {
		return nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return NewResourceMissingError(ErrCodeFileNotFound, "file not found", err).WithPath(path)
	}
	if errors.Is(err, os.ErrPermission) {
		return NewIOError(ErrCodePermissionDenied, "permission denied", err).WithPath(path)
	}
	return NewIOError(ErrCodeFileNotFound, "failed to read file", err).WithPath(path)
}

// ErrUnknownTemplateType creates the error for a template type absent from configuration.
func ErrUnknownTemplateType(name string, known []string) *SpecError {
	return NewConfigError(ErrCodeUnknownType, "Unknown template type: "+name).
		WithContext("type", name).
		WithSuggestions(UnknownTypeSuggestions(name, known)...)
}

// ErrTemplateNotFound creates the error for a configured template missing on disk.
func ErrTemplateNotFound(path string, cause error) *SpecError {
	return NewResourceMissingError(ErrCodeTemplateNotFound, "Template not found", cause).
		WithPath(path)
}

// ErrInvalidName creates the error for an unusable output name.
func ErrInvalidName(name, reason string) *SpecError {
	return NewValidationError(ErrCodeInvalidName, "invalid output name "+quote(name)+": "+reason).
		WithContext("name", name)
}

func quote(s string) string {
	return "'" + s + "'"
}
