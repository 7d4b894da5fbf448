// Package generator turns templates into specifications by substituting
// placeholder values and writing the result to a path that is created at
// most once.
package generator

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/conneroisu/specgen/internal/config"
	"github.com/conneroisu/specgen/internal/errors"
	"github.com/conneroisu/specgen/internal/logging"
	"github.com/conneroisu/specgen/internal/rules"
)

// Placeholders filled in by the generator unless the caller supplies them.
const (
	KeyTimestamp  = "ISO_TIMESTAMP"
	KeyType       = "TEMPLATE_TYPE"
	KeyCategory   = "TEMPLATE_CATEGORY"
	KeyOutputName = "OUTPUT_NAME"
	KeyID         = "ID"
)

// Request names the template type, the output name and the values to substitute.
type Request struct {
	Type   string
	Name   string
	Values Values
}

// Output describes a written specification.
type Output struct {
	Path    string
	Content string
	// Unresolved lists placeholders left in Content. Generation still
	// succeeds; validating the output reports them.
	Unresolved []string
}

// Generator renders templates configured in one Config.
type Generator struct {
	config *config.Config
	rules  *rules.RuleSet
	logger logging.Logger
	now    func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock replaces the clock used for ISO_TIMESTAMP.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a generator. A nil logger discards output.
func New(cfg *config.Config, rs *rules.RuleSet, logger logging.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = logging.Discard()
	}
	g := &Generator{
		config: cfg,
		rules:  rs,
		logger: logger.WithComponent("generator"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// OutputPath returns where a specification of the given type and name is written.
func (g *Generator) OutputPath(templateType, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	dir, err := g.config.OutputDir(templateType)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+"."+g.config.Extension), nil
}

// Render substitutes values into the template of req.Type without writing anything.
func (g *Generator) Render(req Request) (string, error) {
	tt, err := g.config.TemplateType(req.Type)
	if err != nil {
		return "", err
	}
	path, err := g.config.TemplatePath(req.Type)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.ErrTemplateNotFound(path, err).WithContext("type", req.Type)
		}
		return "", errors.WrapFileRead(err, path)
	}
	template := string(data)

	return Substitute(template, g.values(req, tt, template)), nil
}

// Generate renders the template of req.Type and creates the output file.
// An existing file at the output path is never touched.
func (g *Generator) Generate(ctx context.Context, req Request) (*Output, error) {
	perf := logging.StartOperation(g.logger, "generate")

	outPath, err := g.OutputPath(req.Type, req.Name)
	if err != nil {
		perf.EndWithError(ctx, err)
		return nil, err
	}
	if _, err := os.Stat(outPath); err == nil {
		err := errors.NewOutputCollisionError(outPath)
		perf.EndWithError(ctx, err)
		return nil, err
	}

	content, err := g.Render(req)
	if err != nil {
		perf.EndWithError(ctx, err)
		return nil, err
	}

	if err := writeExclusive(outPath, content); err != nil {
		perf.EndWithError(ctx, err)
		return nil, err
	}

	out := &Output{
		Path:       outPath,
		Content:    content,
		Unresolved: Unresolved(content),
	}
	perf.End(ctx, "type", req.Type, "path", outPath, "unresolved", len(out.Unresolved))

	return out, nil
}

// values merges derived placeholders under the caller's values.
func (g *Generator) values(req Request, tt config.TemplateTypeConfig, template string) Values {
	merged := make(Values, len(req.Values)+5)

	merged[KeyTimestamp] = String(g.now().UTC().Format(time.RFC3339))
	merged[KeyType] = String(req.Type)
	merged[KeyOutputName] = String(req.Name)
	merged[KeyID] = String(tt.IDPrefix + req.Name)

	category := tt.Category
	if declared, ok := rules.DeclaredCategory(template); ok && !rules.PlaceholderPattern.MatchString(declared) {
		category = declared
	}
	merged[KeyCategory] = String(category)

	for k, v := range req.Values {
		merged[k] = v
	}
	return merged
}

// ValidateName rejects output names that are not a single path element.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.ErrInvalidName(name, "name is empty")
	case name == "." || name == "..":
		return errors.ErrInvalidName(name, "name must not be a relative directory")
	case strings.ContainsAny(name, `/\`):
		return errors.ErrInvalidName(name, "name must not contain path separators")
	case strings.ContainsRune(name, 0):
		return errors.ErrInvalidName(name, "name must not contain NUL")
	}
	return nil
}

func writeExclusive(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapIO(err, errors.ErrCodeWriteFailed, "failed to create output directory").
			WithPath(filepath.Dir(path))
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if stderrors.Is(err, os.ErrExist) {
			return errors.NewOutputCollisionError(path)
		}
		return errors.WrapIO(err, errors.ErrCodeWriteFailed, "failed to create output file").WithPath(path)
	}

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(path)
		return errors.WrapIO(err, errors.ErrCodeWriteFailed, "failed to write output file").WithPath(path)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return errors.WrapIO(err, errors.ErrCodeWriteFailed, "failed to write output file").WithPath(path)
	}
	return nil
}
