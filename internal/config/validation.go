package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of configuration validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	if len(vr.Errors) > 0 {
		builder.WriteString("❌ Validation Errors:\n")
		for _, err := range vr.Errors {
			builder.WriteString(fmt.Sprintf("  • %s: %s\n", err.Field, err.Message))
			for _, suggestion := range err.Suggestions {
				builder.WriteString(fmt.Sprintf("    💡 %s\n", suggestion))
			}
		}
		builder.WriteString("\n")
	}

	if len(vr.Warnings) > 0 {
		builder.WriteString("⚠️  Validation Warnings:\n")
		for _, warning := range vr.Warnings {
			builder.WriteString(fmt.Sprintf("  • %s: %s\n", warning.Field, warning.Message))
			for _, suggestion := range warning.Suggestions {
				builder.WriteString(fmt.Sprintf("    💡 %s\n", suggestion))
			}
		}
	}

	return builder.String()
}

// ValidateConfigWithDetails performs comprehensive validation with detailed
// feedback, including checks against the file system.
func ValidateConfigWithDetails(config *Config) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	validatePathsDetails(config, result)
	validateTemplateTypesDetails(config, result)
	validateValidationDetails(&config.Validation, result)
	validateRelationshipsDetails(config, result)

	result.Valid = !result.HasErrors()

	return result
}

func validatePathsDetails(config *Config, result *ValidationResult) {
	root := config.TemplatesRoot()
	if !exists(root) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "paths.templates_root",
			Value:   config.Paths.TemplatesRoot,
			Message: fmt.Sprintf("templates root %s does not exist", root),
			Suggestions: []string{
				"Point templates_root at the directory holding the numbered topic folders",
			},
		})
	}

	if base := config.Resolve(filepath.Join(config.Paths.TemplatesRoot, config.Paths.BaseTemplate)); !exists(base) {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "paths.base_template",
			Value:   config.Paths.BaseTemplate,
			Message: "base template not found at " + base,
		})
	}

	if config.Paths.ExamplesRoot != "" && !exists(config.Resolve(config.Paths.ExamplesRoot)) {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "paths.examples_root",
			Value:   config.Paths.ExamplesRoot,
			Message: "examples root does not exist; example comparison is skipped",
		})
	}
}

func validateTemplateTypesDetails(config *Config, result *ValidationResult) {
	if len(config.TemplateTypes) == 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "template_types",
			Message: "no template types configured",
			Suggestions: []string{
				"Run 'specgen config init' to write a default configuration",
			},
		})
		return
	}

	seenOutput := make(map[string]string)
	for _, name := range config.TypeNames() {
		tt := config.TemplateTypes[name]
		field := "template_types." + name

		if err := validateTemplateType(tt); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field,
				Value:   tt,
				Message: err.Error(),
			})
			continue
		}

		path, _ := config.TemplatePath(name)
		if !exists(path) {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   field + ".template",
				Value:   tt.Template,
				Message: "template not found at " + path,
				Suggestions: []string{
					"Create the template or correct the path relative to templates_root",
				},
			})
		}

		if !strings.HasPrefix(filepath.Base(tt.Template), "TEMPLATE-") {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   field + ".template",
				Value:   tt.Template,
				Message: "template file name does not start with TEMPLATE-; it will not be listed",
			})
		}

		if other, dup := seenOutput[tt.OutputDir]; dup {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   field + ".output_dir",
				Value:   tt.OutputDir,
				Message: fmt.Sprintf("output_dir is shared with %s; validate all cannot tell their specifications apart", other),
			})
		} else {
			seenOutput[tt.OutputDir] = name
		}

		if tt.Example != "" && !exists(config.ExamplePath(name)) {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   field + ".example",
				Value:   tt.Example,
				Message: "example not found at " + config.ExamplePath(name),
			})
		}

		if tt.IDPrefix != "" && config.IDFormat(name) == "" {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   field + ".id_prefix",
				Value:   tt.IDPrefix,
				Message: "no id_formats entry for this prefix; identifiers are not checked",
			})
		}
	}
}

func validateValidationDetails(val *ValidationConfig, result *ValidationResult) {
	if val.CommentStart == val.CommentEnd {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "validation.comment_start",
			Value:   val.CommentStart,
			Message: "comment_start and comment_end must differ",
		})
	}

	for prefix, pattern := range val.IDFormats {
		if _, err := regexp.Compile(pattern); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "validation.id_formats." + prefix,
				Value:   pattern,
				Message: err.Error(),
				Suggestions: []string{
					"Identifier formats use Go RE2 syntax",
				},
			})
		}
	}

	for _, name := range val.RequiredPlaceholders {
		if name != strings.ToUpper(name) {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "validation.required_placeholders",
				Value:   name,
				Message: "placeholder names are expected to be upper case",
				Suggestions: []string{
					"Use " + strings.ToUpper(name),
				},
			})
		}
	}
}

func validateRelationshipsDetails(config *Config, result *ValidationResult) {
	for name := range config.Relationships {
		if _, ok := config.TemplateTypes[name]; !ok {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "relationships." + name,
				Message: "relationships declared for an unknown template type",
			})
		}
	}
}
