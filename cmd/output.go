package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/conneroisu/specgen/internal/validator"
)

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "42"})
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "214"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "25", Dark: "33"})
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "244", Dark: "245"})
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// printer writes styled status lines.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) success(format string, args ...interface{}) {
	fmt.Fprintln(p.w, successStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

func (p *printer) fail(format string, args ...interface{}) {
	fmt.Fprintln(p.w, errorStyle.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) warn(format string, args ...interface{}) {
	fmt.Fprintln(p.w, warningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

func (p *printer) info(format string, args ...interface{}) {
	fmt.Fprintln(p.w, infoStyle.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) muted(format string, args ...interface{}) {
	fmt.Fprintln(p.w, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) heading(text string) {
	fmt.Fprintln(p.w, headingStyle.Render(text))
}

// result prints one validation result: a status line, then every error and
// warning indented below it.
func (p *printer) result(r *validator.Result) {
	label := r.Path
	if label == "" {
		label = "document"
	}
	if r.Category != "" {
		label += mutedStyle.Render(" (" + r.Category + ")")
	}

	if r.Valid() {
		p.success("%s", label)
	} else {
		p.fail("✗ %s", label)
	}

	for _, issue := range r.Errors {
		fmt.Fprintln(p.w, "    "+errorStyle.Render("✗ ")+issue.Message)
	}
	for _, issue := range r.Warnings {
		fmt.Fprintln(p.w, "    "+warningStyle.Render("⚠ "+issue.Message))
	}
}

// counts prints a summary line such as "3 errors, 1 warning".
func (p *printer) counts(errs, warnings int) {
	parts := []string{plural(errs, "error"), plural(warnings, "warning")}
	line := strings.Join(parts, ", ")
	switch {
	case errs > 0:
		p.fail("%s", line)
	case warnings > 0:
		p.warn("%s", line)
	default:
		p.success("%s", line)
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
