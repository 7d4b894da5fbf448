package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// ErrorSuggestion represents a suggestion for fixing an error
type ErrorSuggestion struct {
	Title       string
	Description string
	Command     string
	Example     string
}

// maxTypeSuggestions bounds the "did you mean" list.
const maxTypeSuggestions = 3

// UnknownTypeSuggestions generates suggestions for an unrecognized template type.
func UnknownTypeSuggestions(name string, known []string) []ErrorSuggestion {
	var suggestions []ErrorSuggestion

	if name != "" && len(known) > 0 {
		matches := fuzzy.Find(strings.ToLower(name), known)
		for i, m := range matches {
			if i >= maxTypeSuggestions {
				break
			}
			suggestions = append(suggestions, ErrorSuggestion{
				Title:       "Did you mean '" + m.Str + "'?",
				Description: "Similar template type found",
				Command:     "specgen generate " + m.Str + " <name>",
			})
		}
	}

	if len(known) > 0 {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Available template types",
			Description: "These template types are configured: " + strings.Join(known, ", "),
			Command:     "specgen list",
		})
	}

	suggestions = append(suggestions, ErrorSuggestion{
		Title:       "Register the template type",
		Description: "Add the type under template_types in your configuration file",
		Example: "template_types:\n  " + name + ":\n    template: path/to/TEMPLATE-" + name +
			".mdx\n    output_dir: " + name,
	})

	return suggestions
}

// FormatSuggestions renders suggestions as an indented, numbered block.
func FormatSuggestions(suggestions []ErrorSuggestion) string {
	if len(suggestions) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("💡 Suggestions:\n")
	for i, s := range suggestions {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, s.Title)
		if s.Description != "" {
			fmt.Fprintf(&b, "     %s\n", s.Description)
		}
		if s.Command != "" {
			fmt.Fprintf(&b, "     $ %s\n", s.Command)
		}
		if s.Example != "" {
			for _, line := range strings.Split(s.Example, "\n") {
				fmt.Fprintf(&b, "     %s\n", line)
			}
		}
	}

	return b.String()
}

// FormatError renders err with its suggestions when it carries any.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	msg := "❌ " + err.Error()
	var se *SpecError
	if errors.As(err, &se) && len(se.Suggestions) > 0 {
		msg += "\n\n" + FormatSuggestions(se.Suggestions)
	}
	return msg
}
