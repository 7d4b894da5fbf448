// Package store discovers templates under the templates root and derives a
// display name, category and description for each one.
package store

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/specgen/internal/errors"
	"github.com/conneroisu/specgen/internal/logging"
	"github.com/conneroisu/specgen/internal/rules"
)

const (
	templatePrefix   = "TEMPLATE-"
	aiSectionHeading = "## AI Processing Configuration"
	generalCategory  = "General"
)

// skippedDirs are never searched for templates.
var skippedDirs = map[string]bool{
	"tools":             true,
	"node_modules":      true,
	"specifications-ui": true,
}

// Template describes a discovered template file.
type Template struct {
	// ID is the slash-separated path relative to the templates root.
	ID          string `json:"id" yaml:"id"`
	Path        string `json:"path" yaml:"path"`
	Name        string `json:"name" yaml:"name"`
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description" yaml:"description"`
}

// Store reads templates from one root directory.
type Store struct {
	root    string
	ext     string
	comment rules.Comment
	logger  logging.Logger
}

// New creates a store rooted at root for files with extension ext.
func New(root, ext string, rs *rules.RuleSet, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{
		root:    root,
		ext:     strings.TrimPrefix(ext, "."),
		comment: rs.Canonical,
		logger:  logger.WithComponent("store"),
	}
}

// Root returns the templates root.
func (s *Store) Root() string {
	return s.root
}

// List returns every template under the root sorted by category, then name.
func (s *Store) List(ctx context.Context) ([]Template, error) {
	suffix := "." + s.ext
	var templates []Template

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.root && (strings.HasPrefix(d.Name(), ".") || skippedDirs[d.Name()]) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasPrefix(d.Name(), templatePrefix) || !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}

		tmpl, err := s.describe(path)
		if err != nil {
			s.logger.Warn(ctx, err, "Skipping unreadable template", "path", path)
			return nil
		}
		templates = append(templates, tmpl)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewResourceMissingError(errors.ErrCodeFileNotFound, "templates root not found", err).
				WithPath(s.root)
		}
		return nil, errors.WrapIO(err, errors.ErrCodeFileNotFound, "failed to list templates").WithPath(s.root)
	}

	sort.SliceStable(templates, func(i, j int) bool {
		if templates[i].Category != templates[j].Category {
			return templates[i].Category < templates[j].Category
		}
		return templates[i].Name < templates[j].Name
	})

	s.logger.Debug(ctx, "Templates listed", "root", s.root, "count", len(templates))
	return templates, nil
}

// Read returns the body of the template with the given id.
func (s *Store) Read(id string) (string, error) {
	path, err := s.pathFor(id)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.ErrTemplateNotFound(path, err).WithContext("id", id)
	}
	return Body(string(data)), nil
}

// Find returns templates whose name, id or category fuzzily match query,
// best match first. An empty query returns every template.
func (s *Store) Find(ctx context.Context, query string) ([]Template, error) {
	templates, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return templates, nil
	}

	searchStrings := make([]string, len(templates))
	for i, t := range templates {
		searchStrings[i] = t.Name + " " + t.ID + " " + t.Category
	}

	matches := fuzzy.Find(query, searchStrings)
	results := make([]Template, 0, len(matches))
	for _, match := range matches {
		results = append(results, templates[match.Index])
	}
	return results, nil
}

func (s *Store) pathFor(id string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(id))
	if id == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.ErrTemplateNotFound(id, nil).WithContext("id", id)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *Store) describe(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, errors.WrapFileRead(err, path)
	}
	content := string(data)

	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return Template{}, errors.WrapIO(err, errors.ErrCodeInternalError, "failed to relativize template path").WithPath(path)
	}

	comment, body := s.split(content)
	name := nameFrom(comment, body)
	if name == "" {
		name = nameFromFile(filepath.Base(path), s.ext)
	}
	description := descriptionFrom(comment)
	if description == "" {
		description = "Template for " + name
	}

	return Template{
		ID:          filepath.ToSlash(rel),
		Path:        path,
		Name:        name,
		Category:    categoryFrom(filepath.Dir(rel)),
		Description: description,
	}, nil
}

// split separates the leading comment block from the rest of the document.
func (s *Store) split(content string) (comment, body string) {
	content = strings.TrimPrefix(content, "\ufeff")
	start := strings.Index(content, s.comment.Open)
	if start < 0 || strings.TrimSpace(content[:start]) != "" {
		return "", content
	}
	rest := content[start+len(s.comment.Open):]
	end := strings.Index(rest, s.comment.Close)
	if end < 0 {
		return rest, ""
	}
	return rest[:end], rest[end+len(s.comment.Close):]
}

func nameFrom(comment, body string) string {
	if title, ok := rules.Title(body); ok {
		return strings.TrimSpace(title)
	}
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(strings.ToUpper(line), "# TEMPLATE") {
			continue
		}
		name := strings.TrimSpace(line[len("# TEMPLATE"):])
		name = strings.TrimSpace(strings.TrimLeft(name, ":-"))
		if name != "" {
			return name
		}
	}
	return ""
}

func nameFromFile(filename, ext string) string {
	slug := strings.TrimSuffix(strings.TrimPrefix(filename, templatePrefix), "."+ext)
	words := strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(slug))
	return cases.Title(language.English).String(strings.Join(words, " "))
}

func descriptionFrom(comment string) string {
	var lines []string
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "=") {
			continue
		}
		lines = append(lines, line)
		if len(lines) == 2 {
			break
		}
	}
	return strings.Join(lines, " ")
}

func categoryFrom(dir string) string {
	if dir == "." || dir == "" {
		return generalCategory
	}
	replacer := strings.NewReplacer("-", " ", "_", " ")
	var parts []string
	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		if part != "" {
			parts = append(parts, replacer.Replace(part))
		}
	}
	return strings.Join(parts, " > ")
}

// Body removes the AI processing configuration section from a template,
// keeping every following section.
func Body(content string) string {
	idx := strings.Index(content, aiSectionHeading)
	if idx < 0 {
		return content
	}
	rest := content[idx+len(aiSectionHeading):]
	if next := strings.Index(rest, "\n##"); next >= 0 {
		return content[:idx] + rest[next+1:]
	}
	return content[:idx]
}
