// Package preview renders specifications as styled markdown in the terminal
// using glamour.
package preview

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/conneroisu/specgen/internal/errors"
	"github.com/conneroisu/specgen/internal/rules"
)

// DefaultWidth is the word-wrap width used when none is configured.
const DefaultWidth = 100

// Options controls rendering.
type Options struct {
	// Width wraps text; zero means DefaultWidth.
	Width int
	// Style names a glamour standard style ("dark", "light", "notty", ...).
	// Empty picks one from the GLAMOUR_STYLE variable or the terminal background.
	Style string
	// ShowMetadata renders the leading comment block as a YAML code block
	// instead of dropping it.
	ShowMetadata bool
}

// Renderer turns specification text into terminal output.
type Renderer struct {
	term    *glamour.TermRenderer
	comment rules.Comment
	opts    Options
}

// New creates a renderer for documents that use rs's comment syntax.
func New(rs *rules.RuleSet, opts Options) (*Renderer, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}

	term, err := glamour.NewTermRenderer(
		styleOption(opts.Style),
		glamour.WithWordWrap(opts.Width),
	)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeInternalError, "failed to create markdown renderer", err)
	}

	return &Renderer{term: term, comment: rs.Canonical, opts: opts}, nil
}

// Render returns the styled form of content.
func (r *Renderer) Render(content string) (string, error) {
	out, err := r.term.Render(r.Markdown(content))
	if err != nil {
		return "", errors.NewInternalError(errors.ErrCodeInternalError, "failed to render markdown", err)
	}
	return out, nil
}

// Markdown converts a specification into plain markdown. Comment blocks are
// not markdown, so they are dropped or fenced.
func (r *Renderer) Markdown(content string) string {
	content = strings.TrimPrefix(content, "\ufeff")

	var b strings.Builder
	rest := content
	for {
		start := strings.Index(rest, r.comment.Open)
		if start < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:start])

		after := rest[start+len(r.comment.Open):]
		end := strings.Index(after, r.comment.Close)
		if end < 0 {
			// unterminated comment: keep the text as written
			b.WriteString(rest[start:])
			break
		}

		if r.opts.ShowMetadata {
			if body := strings.Trim(after[:end], "\n"); strings.TrimSpace(body) != "" {
				b.WriteString("```yaml\n" + body + "\n```\n")
			}
		}
		rest = after[end+len(r.comment.Close):]
	}

	return strings.TrimLeft(b.String(), "\n")
}

func styleOption(style string) glamour.TermRendererOption {
	if style == "" {
		style = os.Getenv("GLAMOUR_STYLE")
	}
	if style != "" {
		return glamour.WithStandardStyle(style)
	}
	if lipgloss.HasDarkBackground() {
		return glamour.WithStandardStyle("dark")
	}
	return glamour.WithStandardStyle("light")
}
