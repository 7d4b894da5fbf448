// Package validator checks templates and generated specifications against the
// rule table. Checks never mutate their input and never stop at the first
// defect: every finding is collected into a Result.
package validator

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/conneroisu/specgen/internal/errors"
	"github.com/conneroisu/specgen/internal/logging"
	"github.com/conneroisu/specgen/internal/rules"
)

const bom = "\ufeff"

// Options narrows a check to a template type and supplies related documents.
type Options struct {
	// Category is the template type. For specifications it overrides the
	// type declared in the document.
	Category string
	// Template is the content of the template a specification came from.
	Template string
	// Example is the content of a worked example to compare against.
	Example string
}

// Validator runs structural checks using one rule table.
type Validator struct {
	rules  *rules.RuleSet
	logger logging.Logger
}

// New creates a validator. A nil logger discards output.
func New(rs *rules.RuleSet, logger logging.Logger) *Validator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Validator{
		rules:  rs,
		logger: logger.WithComponent("validator"),
	}
}

// Rules returns the rule table the validator consults.
func (v *Validator) Rules() *rules.RuleSet {
	return v.rules
}

// CheckTemplate validates template content.
func (v *Validator) CheckTemplate(content string, opts Options) *Result {
	result := newResult()
	result.Category = opts.Category
	content = strings.TrimPrefix(content, bom)

	v.checkComments(content, result)
	v.checkBlocks(content, result)

	cat, _ := v.rules.Category(opts.Category)
	v.checkHeadings(content, cat, result)
	v.checkPlaceholders(content, result)
	if cat != nil {
		v.checkID(content, cat, result)
	}

	if opts.Example != "" {
		compareSections(opts.Example, content, result)
		comparePlaceholders(opts.Example, content, result)
	}

	return result
}

// CheckSpec validates a generated specification.
func (v *Validator) CheckSpec(content string, opts Options) *Result {
	result := newResult()
	content = strings.TrimPrefix(content, bom)

	v.checkComments(content, result)

	typeName := opts.Category
	if typeName == "" {
		typeName, _ = rules.DeclaredType(content)
	}
	result.Category = typeName

	switch cat, known := v.rules.Category(typeName); {
	case typeName == "":
		result.addError(KindUnknownType, "Could not determine template type from metadata")
	case !known:
		result.addError(KindUnknownType, "Unknown template type: "+typeName)
	default:
		for _, field := range cat.RequiredFields {
			if !rules.HasField(content, field) {
				result.addError(KindMissingField, "Missing required field: "+field)
			}
		}
		v.checkID(content, cat, result)
		checkRelationships(content, cat, result)
	}

	if opts.Template != "" {
		checkTemplateSections(opts.Template, content, result)
	}
	if opts.Example != "" {
		compareSections(opts.Example, content, result)
	}

	if unresolved := distinct(rules.Placeholders(content)); len(unresolved) > 0 {
		result.addError(KindUnresolvedPlaceholder, "Unresolved placeholders: "+strings.Join(unresolved, ", "))
	}

	return result
}

// ValidateTemplateFile reads and checks a template. Only a file that cannot
// be read produces an error; a missing example skips the comparison.
func (v *Validator) ValidateTemplateFile(ctx context.Context, path, category, examplePath string) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileRead(err, path)
	}

	opts := Options{Category: category}
	if examplePath != "" {
		example, err := os.ReadFile(examplePath)
		if err != nil {
			v.logger.Debug(ctx, "Example unavailable, skipping comparison", "example", examplePath, "error", err)
		} else {
			opts.Example = string(example)
		}
	}

	result := v.CheckTemplate(string(content), opts)
	result.Path = path

	v.logger.Debug(ctx, "Template checked",
		"path", path,
		"category", category,
		"errors", len(result.Errors),
		"warnings", len(result.Warnings))

	return result, nil
}

func (v *Validator) checkComments(content string, result *Result) {
	canonical := v.rules.Canonical
	if !strings.HasPrefix(content, canonical.Open) {
		result.addError(KindCommentSyntax, "Template must start with MDX comment "+canonical.Open)
	}

	opens := strings.Count(content, canonical.Open)
	closes := strings.Count(content, canonical.Close)
	if opens != closes {
		result.addError(KindCommentSyntax, fmt.Sprintf("Mismatched MDX comment delimiters: %d %s vs %d %s",
			opens, canonical.Open, closes, canonical.Close))
	}

	legacy := v.rules.Legacy
	if strings.Contains(content, legacy.Open) || strings.Contains(content, legacy.Close) {
		result.addWarning(KindLegacyComment, fmt.Sprintf("Found legacy comment delimiters %s %s; run fix-syntax",
			legacy.Open, legacy.Close))
	}
}

func (v *Validator) checkBlocks(content string, result *Result) {
	for _, block := range v.rules.RequiredBlocks {
		if !strings.Contains(content, block) {
			result.addError(KindMissingBlock, "Missing required section: "+block)
		}
	}
}

func (v *Validator) checkHeadings(content string, cat *rules.Category, result *Result) {
	required := append([]string(nil), v.rules.BaseSections...)
	if cat != nil {
		required = append(required, cat.RequiredSections...)
	}
	if len(required) == 0 {
		return
	}

	present := toSet(rules.Headings(content))
	seen := make(map[string]bool, len(required))
	for _, heading := range required {
		if seen[heading] {
			continue
		}
		seen[heading] = true
		if !present[heading] {
			result.addError(KindMissingHeading, "Missing required heading: "+heading)
		}
	}
}

func (v *Validator) checkPlaceholders(content string, result *Result) {
	names := distinct(rules.Placeholders(content))
	for _, name := range names {
		if !isUpper(name) {
			result.addError(KindPlaceholderCase, "Placeholder should be uppercase: ${"+name+"}")
		}
	}

	present := toSet(names)
	for _, name := range v.rules.RequiredPlaceholders {
		if !present[name] {
			result.addError(KindMissingPlaceholder, "Missing required placeholder: ${"+name+"}")
		}
	}
}

func (v *Validator) checkID(content string, cat *rules.Category, result *Result) {
	if cat.IDPattern == nil {
		return
	}
	pattern := cat.IDPattern.String()

	id, ok := rules.DeclaredID(content)
	switch {
	case !ok:
		result.addError(KindIDFormat, "Missing id field (expected pattern "+pattern+")")
	case rules.PlaceholderPattern.MatchString(id):
		// filled in at generation time
	case !cat.IDPattern.MatchString(id):
		result.addError(KindIDFormat, "Invalid ID format. Should match pattern: "+pattern)
	}
}

func checkRelationships(content string, cat *rules.Category, result *Result) {
	for _, item := range cat.Contains {
		if !rules.HasRelationship(content, "contains", item) {
			result.addError(KindRelationship, "Missing required containment relationship: "+item)
		}
	}
	for _, item := range cat.References {
		if !rules.HasRelationship(content, "references", item) {
			result.addWarning(KindRelationship, "Missing reference relationship: "+item)
		}
	}
}

// checkTemplateSections requires every section of the template in the
// specification. Placeholders inside a template heading match any text.
func checkTemplateSections(template, content string, result *Result) {
	specSections := rules.Sections(content)
	for _, section := range distinct(rules.Sections(template)) {
		matcher := sectionMatcher(section)
		found := false
		for _, candidate := range specSections {
			if matcher.MatchString(candidate) {
				found = true
				break
			}
		}
		if !found {
			result.addError(KindTemplateSection, "Missing required section from template: "+section)
		}
	}
}

func sectionMatcher(section string) *regexp.Regexp {
	parts := rules.PlaceholderPattern.Split(section, -1)
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return regexp.MustCompile("^" + strings.Join(parts, ".+") + "$")
}

func compareSections(example, candidate string, result *Result) {
	if missing := difference(rules.Sections(example), rules.Sections(candidate)); len(missing) > 0 {
		result.addError(KindExampleDrift, "Missing sections found in example: "+strings.Join(missing, ", "))
	}
}

func comparePlaceholders(example, candidate string, result *Result) {
	if missing := difference(rules.Placeholders(example), rules.Placeholders(candidate)); len(missing) > 0 {
		result.addError(KindExampleDrift, "Missing placeholders found in example: "+strings.Join(missing, ", "))
	}
}

// difference returns the sorted distinct members of a absent from b.
func difference(a, b []string) []string {
	have := toSet(b)
	var missing []string
	for _, item := range distinct(a) {
		if !have[item] {
			missing = append(missing, item)
		}
	}
	sort.Strings(missing)
	return missing
}

// isUpper reports at least one cased letter and no lower-case letter.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func distinct(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
