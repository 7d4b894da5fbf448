// Package rules holds the single table of tokens and patterns that the
// validator, generator and repair pass consult. A RuleSet is built once from
// configuration and passed explicitly to each consumer.
package rules

import (
	"fmt"
	"regexp"

	"github.com/conneroisu/specgen/internal/config"
)

var (
	// PlaceholderPattern matches ${NAME}; group 1 is the name.
	PlaceholderPattern = regexp.MustCompile(`\$\{([^}]*)\}`)

	// SectionPattern matches second-level headings; group 1 is the title.
	SectionPattern = regexp.MustCompile(`(?m)^##[ \t]+(.+?)[ \t\r]*$`)

	// HeadingPattern matches a markdown heading of any level.
	HeadingPattern = regexp.MustCompile(`(?m)^#{1,6}[ \t]+(.+?)[ \t]*#*[ \t\r]*$`)

	// TitlePattern matches a first-level heading.
	TitlePattern = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t\r]*$`)

	idFieldPattern       = regexp.MustCompile(`\bid:\s*"([^"]+)"`)
	typeFieldPattern     = regexp.MustCompile(`\btype:\s*"([^"]+)"`)
	categoryFieldPattern = regexp.MustCompile(`\bcategory:\s*"([^"]+)"`)
)

// Comment is a pair of delimiters enclosing a comment block.
type Comment struct {
	Open  string
	Close string
}

// Category holds the requirements specific to one template type.
type Category struct {
	Name             string
	IDPrefix         string
	IDPattern        *regexp.Regexp
	RequiredSections []string
	RequiredFields   []string
	Contains         []string
	References       []string
}

// RuleSet is the validation rule table for one run.
type RuleSet struct {
	Canonical            Comment
	Legacy               Comment
	RequiredBlocks       []string
	RequiredPlaceholders []string
	BaseSections         []string
	Categories           map[string]*Category
}

// FromConfig compiles the rule table described by cfg.
func FromConfig(cfg *config.Config) (*RuleSet, error) {
	rs := &RuleSet{
		Canonical: Comment{
			Open:  cfg.Validation.CommentStart,
			Close: cfg.Validation.CommentEnd,
		},
		Legacy: Comment{
			Open:  cfg.Validation.LegacyCommentStart,
			Close: cfg.Validation.LegacyCommentEnd,
		},
		RequiredBlocks:       cfg.Validation.RequiredBlocks,
		RequiredPlaceholders: cfg.Validation.RequiredPlaceholders,
		BaseSections:         cfg.Validation.BaseSections,
		Categories:           make(map[string]*Category, len(cfg.TemplateTypes)),
	}

	for _, name := range cfg.TypeNames() {
		tt := cfg.TemplateTypes[name]
		rel := cfg.RelationshipsFor(name)
		cat := &Category{
			Name:             name,
			IDPrefix:         tt.IDPrefix,
			RequiredSections: tt.RequiredSections,
			RequiredFields:   tt.RequiredFields,
			Contains:         rel.Contains,
			References:       rel.References,
		}
		if pattern := cfg.IDFormat(name); pattern != "" {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("template type %s: invalid id format %q: %w", name, pattern, err)
			}
			cat.IDPattern = re
		}
		rs.Categories[name] = cat
	}

	return rs, nil
}

// Default returns the rule table of the default configuration.
func Default() *RuleSet {
	rs, err := FromConfig(config.Default())
	if err != nil {
		panic(err)
	}
	return rs
}

// Category returns the requirements of a template type, if it is known.
func (rs *RuleSet) Category(name string) (*Category, bool) {
	cat, ok := rs.Categories[name]
	return cat, ok
}

// Placeholders returns every placeholder name in content, in order, with repeats.
func Placeholders(content string) []string {
	matches := PlaceholderPattern.FindAllStringSubmatch(content, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// Sections returns the titles of all second-level headings in content.
func Sections(content string) []string {
	return allGroups(SectionPattern, content)
}

// Headings returns the titles of headings of every level in content.
func Headings(content string) []string {
	return allGroups(HeadingPattern, content)
}

// Title returns the first first-level heading, if any.
func Title(content string) (string, bool) {
	return firstGroup(TitlePattern, content)
}

// DeclaredID returns the value of the first id: "..." field.
func DeclaredID(content string) (string, bool) {
	return firstGroup(idFieldPattern, content)
}

// DeclaredType returns the value of the first type: "..." field.
func DeclaredType(content string) (string, bool) {
	return firstGroup(typeFieldPattern, content)
}

// DeclaredCategory returns the value of the first category: "..." field.
func DeclaredCategory(content string) (string, bool) {
	return firstGroup(categoryFieldPattern, content)
}

// HasField reports whether a "name:" key appears anywhere in content.
func HasField(content, name string) bool {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `:`)
	if err != nil {
		return false
	}
	return re.MatchString(content)
}

// HasRelationship reports whether a line declaring kind (contains, references)
// mentions target after the colon.
func HasRelationship(content, kind, target string) bool {
	re, err := regexp.Compile(`(?m)\b` + regexp.QuoteMeta(kind) + `:[^\n]*` + regexp.QuoteMeta(target))
	if err != nil {
		return false
	}
	return re.MatchString(content)
}

func firstGroup(re *regexp.Regexp, content string) (string, bool) {
	m := re.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func allGroups(re *regexp.Regexp, content string) []string {
	matches := re.FindAllStringSubmatch(content, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}
