// Package scaffolding renders starter templates for configured template
// types. A starter template carries every block, placeholder, field and
// heading the rule set requires, so it validates before anyone edits it.
package scaffolding

import (
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/specgen/internal/errors"
	"github.com/conneroisu/specgen/internal/rules"
)

const (
	metadataBlock      = "metadata:"
	aiAssistanceBlock  = "ai_assistance:"
	relationshipsBlock = "relationships:"
)

// Scaffolder renders starter templates from one rule table.
type Scaffolder struct {
	rules *rules.RuleSet
	tmpl  *template.Template
}

// New parses the starter template for rs.
func New(rs *rules.RuleSet) (*Scaffolder, error) {
	tmpl, err := template.New("starter").Parse(starterTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &Scaffolder{rules: rs, tmpl: tmpl}, nil
}

// ForType renders the starter template of a configured type.
func (s *Scaffolder) ForType(typeName string) (string, error) {
	ctx, err := s.ContextFor(typeName)
	if err != nil {
		return "", err
	}
	return s.Render(ctx)
}

// ContextFor builds the render context of a configured type.
func (s *Scaffolder) ContextFor(typeName string) (TemplateContext, error) {
	cat, ok := s.rules.Category(typeName)
	if !ok {
		return TemplateContext{}, errors.NewConfigError(errors.ErrCodeUnknownType, "Unknown template type: "+typeName).
			WithContext("type", typeName)
	}

	title := TitleFor(typeName)
	ctx := TemplateContext{
		Open:        s.rules.Canonical.Open,
		Close:       s.rules.Canonical.Close,
		Title:       title,
		Description: fmt.Sprintf("Structured %s document.", strings.ToLower(title)),
		Type:        typeName,
	}

	for _, label := range s.rules.RequiredBlocks {
		block := Block{Label: label}
		if label == aiAssistanceBlock {
			block.Fields = append(block.Fields, Field{Key: "document_type", Value: typeName})
		}
		block.Fields = append(block.Fields, standardFields[label]...)
		ctx.Blocks = append(ctx.Blocks, block)
	}

	target := metadataIndex(&ctx)
	used := usedPlaceholders(ctx.Blocks)
	for _, name := range s.rules.RequiredPlaceholders {
		if !used[name] {
			ctx.Blocks[target].Fields = append(ctx.Blocks[target].Fields,
				Field{Key: strings.ToLower(name), Value: "${" + name + "}"})
			used[name] = true
		}
	}

	keys := fieldKeys(ctx.Blocks)
	for _, field := range cat.RequiredFields {
		if !keys[field] {
			ctx.Blocks[target].Fields = append(ctx.Blocks[target].Fields,
				Field{Key: field, Value: "${" + PlaceholderFor(field) + "}"})
			keys[field] = true
		}
	}

	if len(cat.Contains) > 0 || len(cat.References) > 0 {
		rel := Block{Label: relationshipsBlock}
		if len(cat.Contains) > 0 {
			rel.Fields = append(rel.Fields, Field{Key: "contains", Value: strings.Join(cat.Contains, ", ")})
		}
		if len(cat.References) > 0 {
			rel.Fields = append(rel.Fields, Field{Key: "references", Value: strings.Join(cat.References, ", ")})
		}
		ctx.Blocks = append(ctx.Blocks, rel)
	}

	seen := make(map[string]bool)
	for _, heading := range append(append([]string(nil), s.rules.BaseSections...), cat.RequiredSections...) {
		if seen[heading] {
			continue
		}
		seen[heading] = true
		ctx.Sections = append(ctx.Sections, Section{Title: heading, Placeholder: PlaceholderFor(heading)})
	}

	return ctx, nil
}

// Render executes the starter template.
func (s *Scaffolder) Render(ctx TemplateContext) (string, error) {
	var b strings.Builder
	if err := s.tmpl.Execute(&b, ctx); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return b.String(), nil
}

// TitleFor turns a type name such as "api_design" into "Api Design".
func TitleFor(typeName string) string {
	words := strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(typeName))
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// PlaceholderFor derives an upper-case placeholder name from free text.
func PlaceholderFor(text string) string {
	var b strings.Builder
	underscore := false
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

func metadataIndex(ctx *TemplateContext) int {
	for i, block := range ctx.Blocks {
		if block.Label == metadataBlock {
			return i
		}
	}
	if len(ctx.Blocks) == 0 {
		ctx.Blocks = append(ctx.Blocks, Block{Label: metadataBlock})
	}
	return len(ctx.Blocks) - 1
}

func usedPlaceholders(blocks []Block) map[string]bool {
	used := make(map[string]bool)
	for _, block := range blocks {
		for _, field := range block.Fields {
			for _, name := range rules.Placeholders(field.Value) {
				used[name] = true
			}
		}
	}
	return used
}

func fieldKeys(blocks []Block) map[string]bool {
	keys := make(map[string]bool)
	for _, block := range blocks {
		for _, field := range block.Fields {
			keys[field.Key] = true
		}
	}
	return keys
}
