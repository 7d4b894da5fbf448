package errors

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecErrorError(t *testing.T) {
	testCases := []struct {
		name     string
		err      *SpecError
		expected string
	}{
		{
			name:     "message only",
			err:      &SpecError{Message: "boom"},
			expected: "boom",
		},
		{
			name:     "code and path",
			err:      NewOutputCollisionError("out/sprints/s1.mdx"),
			expected: "[ERR_OUTPUT_EXISTS] out/sprints/s1.mdx output file already exists",
		},
		{
			name: "with cause",
			err: NewIOError(ErrCodeWriteFailed, "write failed", fmt.Errorf("disk full")).
				WithComponent("generator"),
			expected: "[ERR_WRITE_FAILED] component:generator write failed: disk full",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestSpecErrorIsAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := NewResourceMissingError(ErrCodeTemplateNotFound, "missing", cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, &SpecError{Type: ErrorTypeResourceMissing, Code: ErrCodeTemplateNotFound}))
	assert.False(t, errors.Is(err, &SpecError{Type: ErrorTypeIO, Code: ErrCodeTemplateNotFound}))

	wrapped := fmt.Errorf("context: %w", err)
	assert.True(t, IsResourceMissing(wrapped))
	assert.Equal(t, ErrorTypeResourceMissing, TypeOf(wrapped))
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, IsOutputCollision(NewOutputCollisionError("x")))
	assert.True(t, IsConfigIncomplete(ErrUnknownTemplateType("epic", nil)))
	assert.True(t, IsValidation(ErrInvalidName("../x", "path separators are not allowed")))
	assert.False(t, IsOutputCollision(fmt.Errorf("plain")))
	assert.Equal(t, ErrorType(""), TypeOf(nil))
}

func TestWrapPreservesContext(t *testing.T) {
	inner := NewIOError(ErrCodeWriteFailed, "inner", nil).
		WithPath("a.mdx").
		WithContext("attempt", 1)

	outer := Wrap(inner, ErrorTypeInternal, ErrCodeInternalError, "outer")
	require.NotNil(t, outer)
	assert.Equal(t, "a.mdx", outer.Path)
	assert.Equal(t, 1, outer.Context["attempt"])
	assert.Same(t, inner, outer.Cause)

	assert.Nil(t, Wrap(nil, ErrorTypeIO, "x", "y"))
}

func TestWrapFileRead(t *testing.T) {
	_, err := os.ReadFile("/definitely/not/here.mdx")
	require.Error(t, err)

	se := WrapFileRead(err, "/definitely/not/here.mdx")
	require.NotNil(t, se)
	assert.Equal(t, ErrorTypeResourceMissing, se.Type)
	assert.Equal(t, "/definitely/not/here.mdx", se.Path)

	other := WrapFileRead(fmt.Errorf("is a directory"), "dir")
	assert.Equal(t, ErrorTypeIO, other.Type)
}

func TestUnknownTypeSuggestions(t *testing.T) {
	known := []string{"architecture", "persona", "schema", "sprint"}

	suggestions := UnknownTypeSuggestions("archtecture", known)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "Did you mean 'architecture'?", suggestions[0].Title)

	last := suggestions[len(suggestions)-1]
	assert.Equal(t, "Register the template type", last.Title)
	assert.Contains(t, last.Example, "archtecture:")
}

func TestErrUnknownTemplateTypeMessage(t *testing.T) {
	err := ErrUnknownTemplateType("epic", []string{"sprint"})
	assert.Equal(t, "Unknown template type: epic", err.Message)

	formatted := FormatError(err)
	assert.Contains(t, formatted, "❌")
	assert.Contains(t, formatted, "💡 Suggestions:")
	assert.Contains(t, formatted, "sprint")
}

type recordingLogger struct {
	errors []string
	warns  []string
}

func (r *recordingLogger) Error(_ context.Context, _ error, msg string, _ ...interface{}) {
	r.errors = append(r.errors, msg)
}

func (r *recordingLogger) Warn(_ context.Context, _ error, msg string, _ ...interface{}) {
	r.warns = append(r.warns, msg)
}

func TestErrorHandlerRoutesByType(t *testing.T) {
	logger := &recordingLogger{}
	handler := NewErrorHandler(logger)
	ctx := context.Background()

	handler.Handle(ctx, nil)
	handler.Handle(ctx, NewOutputCollisionError("x"))
	handler.Handle(ctx, NewIOError(ErrCodeWriteFailed, "disk", nil))
	handler.Handle(ctx, fmt.Errorf("plain"))

	assert.Equal(t, []string{"Operation rejected"}, logger.warns)
	assert.Equal(t, []string{"Error occurred", "Unhandled error occurred"}, logger.errors)
}
