package validator

import (
	"strings"

	"github.com/conneroisu/specgen/internal/errors"
)

// Kind identifies which check produced an issue.
type Kind string

const (
	KindCommentSyntax         Kind = "comment_syntax"
	KindLegacyComment         Kind = "legacy_comment"
	KindMissingBlock          Kind = "missing_block"
	KindMissingHeading        Kind = "missing_heading"
	KindPlaceholderCase       Kind = "placeholder_case"
	KindMissingPlaceholder    Kind = "missing_placeholder"
	KindIDFormat              Kind = "id_format"
	KindExampleDrift          Kind = "example_drift"
	KindUnknownType           Kind = "unknown_type"
	KindMissingField          Kind = "missing_field"
	KindRelationship          Kind = "relationship"
	KindTemplateSection       Kind = "template_section"
	KindUnresolvedPlaceholder Kind = "unresolved_placeholder"
)

// Issue is a single human-readable finding.
type Issue struct {
	Kind    Kind   `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

// ErrorType maps the issue onto the error taxonomy.
func (i Issue) ErrorType() errors.ErrorType {
	switch i.Kind {
	case KindUnresolvedPlaceholder:
		return errors.ErrorTypeUnresolvedPlaceholder
	case KindUnknownType:
		return errors.ErrorTypeConfigIncomplete
	default:
		return errors.ErrorTypeStructuralViolation
	}
}

func (i Issue) String() string {
	return i.Message
}

// Result collects the errors and warnings of one validation run. A document
// is valid when Errors is empty; warnings never affect validity.
type Result struct {
	Path     string  `json:"path,omitempty" yaml:"path,omitempty"`
	Category string  `json:"category,omitempty" yaml:"category,omitempty"`
	Errors   []Issue `json:"errors" yaml:"errors"`
	Warnings []Issue `json:"warnings" yaml:"warnings"`
}

func newResult() *Result {
	return &Result{Errors: []Issue{}, Warnings: []Issue{}}
}

// Valid reports whether no errors were found.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// HasKind reports whether any error of kind k was recorded.
func (r *Result) HasKind(k Kind) bool {
	for _, issue := range r.Errors {
		if issue.Kind == k {
			return true
		}
	}
	return false
}

// ErrorMessages returns the error texts in the order they were found.
func (r *Result) ErrorMessages() []string {
	return messages(r.Errors)
}

// WarningMessages returns the warning texts in the order they were found.
func (r *Result) WarningMessages() []string {
	return messages(r.Warnings)
}

// Err condenses the result into a single error, or nil when valid.
func (r *Result) Err() error {
	if r.Valid() {
		return nil
	}
	errType := errors.ErrorTypeStructuralViolation
	code := errors.ErrCodeStructure
	if len(r.Errors) == 1 && r.Errors[0].Kind == KindUnresolvedPlaceholder {
		errType = errors.ErrorTypeUnresolvedPlaceholder
		code = errors.ErrCodeUnresolved
	}
	return &errors.SpecError{
		Type:    errType,
		Code:    code,
		Message: strings.Join(r.ErrorMessages(), "; "),
		Path:    r.Path,
	}
}

func (r *Result) addError(kind Kind, msg string) {
	r.Errors = append(r.Errors, Issue{Kind: kind, Message: msg})
}

func (r *Result) addWarning(kind Kind, msg string) {
	r.Warnings = append(r.Warnings, Issue{Kind: kind, Message: msg})
}

func messages(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Message
	}
	return out
}
