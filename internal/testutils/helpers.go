package testutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conneroisu/specgen/internal/config"
)

// TemplateContent builds a template that passes every default check. Extra
// sections are appended as second-level headings.
func TemplateContent(title string, extraSections ...string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `{/*
# TEMPLATE: %s
Structured planning document for %s.
Fill every placeholder before review.

template:
  id: "${ID}"
  category: "${TEMPLATE_CATEGORY}"
  type: "${TEMPLATE_TYPE}"
  version: "${VERSION}"

metadata:
  document_key: "${DOCUMENT_KEY}"
  author: "${AUTHOR}"
  created: "${ISO_TIMESTAMP}"
  last_updated: "${LAST_UPDATED_DATE}"

ai_assistance:
  document_type: "%s"
*/}

# %s

`, title, strings.ToLower(title), strings.ToLower(title), title)

	for _, section := range config.BaseSections {
		fmt.Fprintf(&b, "## %s\n\n", section)
		if section == "Core Content" {
			b.WriteString("${CORE_CONTENT}\n\n")
		}
	}
	for _, section := range extraSections {
		fmt.Fprintf(&b, "## %s\n\n", section)
	}

	return b.String()
}

// LegacyTemplateContent is TemplateContent written with HTML comment delimiters.
func LegacyTemplateContent(title string) string {
	content := TemplateContent(title)
	content = strings.Replace(content, "{/*", "<!--", 1)
	content = strings.Replace(content, "*/}", "-->", 1)
	return content
}

// CompleteValues covers every placeholder of TemplateContent except the
// derived ones the generator fills in.
func CompleteValues() map[string]string {
	return map[string]string{
		"VERSION":           "1.0.0",
		"DOCUMENT_KEY":      "DOC-1",
		"AUTHOR":            "Test Author",
		"LAST_UPDATED_DATE": "2024-01-01",
		"CORE_CONTENT":      "Body text",
	}
}

// CreateTempProject creates a templates tree holding one valid template per
// default template type, and a configuration anchored at it.
func CreateTempProject(t *testing.T) (string, *config.Config) {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.BaseDir = dir

	for _, name := range cfg.TypeNames() {
		path, err := cfg.TemplatePath(name)
		require.NoError(t, err)
		WriteFile(t, path, TemplateContent(strings.ToUpper(name[:1])+name[1:]))
	}

	return dir, cfg
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ReadFile returns the content of path.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
