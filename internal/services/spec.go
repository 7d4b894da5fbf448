// Package services holds the business logic behind each command. Services
// own their collaborators and return data that the command layer formats.
package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/conneroisu/specgen/internal/config"
	"github.com/conneroisu/specgen/internal/errors"
	"github.com/conneroisu/specgen/internal/generator"
	"github.com/conneroisu/specgen/internal/logging"
	"github.com/conneroisu/specgen/internal/repair"
	"github.com/conneroisu/specgen/internal/rules"
	"github.com/conneroisu/specgen/internal/store"
	"github.com/conneroisu/specgen/internal/validator"
)

// SpecService implements generation, validation, listing and repair of
// documents for one configuration.
type SpecService struct {
	config    *config.Config
	rules     *rules.RuleSet
	validator *validator.Validator
	generator *generator.Generator
	repairer  *repair.Repairer
	store     *store.Store
	logger    logging.Logger
}

// NewSpecService compiles the rule table of cfg and wires every collaborator.
func NewSpecService(cfg *config.Config, logger logging.Logger, opts ...generator.Option) (*SpecService, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	rs, err := rules.FromConfig(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfigIncomplete, errors.ErrCodeConfigInvalid, "invalid validation rules")
	}

	return &SpecService{
		config:    cfg,
		rules:     rs,
		validator: validator.New(rs, logger),
		generator: generator.New(cfg, rs, logger, opts...),
		repairer:  repair.New(rs, logger),
		store:     store.New(cfg.TemplatesRoot(), cfg.Extension, rs, logger),
		logger:    logger.WithComponent("spec_service"),
	}, nil
}

// Config returns the configuration the service was built from.
func (s *SpecService) Config() *config.Config {
	return s.config
}

// Store returns the template store.
func (s *SpecService) Store() *store.Store {
	return s.store
}

// Rules returns the compiled rule table.
func (s *SpecService) Rules() *rules.RuleSet {
	return s.rules
}

// Pending renders the template of typeName with values and returns the
// placeholders that would stay unresolved. Nothing is written.
func (s *SpecService) Pending(typeName, name string, values generator.Values) ([]string, error) {
	content, err := s.generator.Render(generator.Request{Type: typeName, Name: name, Values: values})
	if err != nil {
		return nil, err
	}
	return generator.Unresolved(content), nil
}

// GenerateOptions contains options for generating a specification
type GenerateOptions struct {
	Type   string
	Name   string
	Values generator.Values
	// Verify checks the template before generating.
	Verify bool
	// Confirm decides whether to continue when the template has errors.
	// A nil Confirm stops generation.
	Confirm func(*validator.Result) bool
}

// GenerateResult contains the result of a generation
type GenerateResult struct {
	Output *generator.Output
	// Template is the template check, when verification ran.
	Template *validator.Result
	// Spec is the check of the generated document.
	Spec *validator.Result
}

// Generate renders a specification and checks what it wrote.
func (s *SpecService) Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	result := &GenerateResult{}

	if opts.Verify {
		templatePath, err := s.config.TemplatePath(opts.Type)
		if err != nil {
			return nil, err
		}
		check, err := s.validator.ValidateTemplateFile(ctx, templatePath, opts.Type, s.config.ExamplePath(opts.Type))
		if err != nil {
			return nil, err
		}
		result.Template = check

		if !check.Valid() && (opts.Confirm == nil || !opts.Confirm(check)) {
			return result, errors.NewValidationError(errors.ErrCodeValidationFailed, "template has structural errors").
				WithPath(templatePath).
				WithContext("errors", len(check.Errors))
		}
	}

	out, err := s.generator.Generate(ctx, generator.Request{
		Type:   opts.Type,
		Name:   opts.Name,
		Values: opts.Values,
	})
	if err != nil {
		return result, err
	}
	result.Output = out

	template := s.templateContent(ctx, opts.Type)
	result.Spec = s.validator.CheckSpec(out.Content, validator.Options{Category: opts.Type, Template: template})
	result.Spec.Path = out.Path

	return result, nil
}

// ValidateTemplate checks a template file. The category comes from the
// configured type that owns the path, else from the declared type.
func (s *SpecService) ValidateTemplate(ctx context.Context, path string) (*validator.Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileRead(err, path)
	}

	category, ok := s.config.TypeForTemplate(path)
	if !ok {
		category, _ = rules.DeclaredType(string(content))
		if _, known := s.rules.Category(category); !known {
			category = ""
		}
	}

	opts := validator.Options{Category: category}
	if category != "" {
		opts.Example = s.readOptional(ctx, s.config.ExamplePath(category))
	}

	result := s.validator.CheckTemplate(string(content), opts)
	result.Path = path
	return result, nil
}

// ValidateSpec checks a generated specification. typeOverride replaces the
// declared type; when neither exists the output directory decides.
func (s *SpecService) ValidateSpec(ctx context.Context, path, typeOverride string) (*validator.Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileRead(err, path)
	}

	typeName := typeOverride
	if typeName == "" {
		if _, declared := rules.DeclaredType(string(content)); !declared {
			typeName, _ = s.config.TypeForOutputDir(filepath.Dir(path))
		}
	}

	opts := validator.Options{Category: typeName}
	resolved := typeName
	if resolved == "" {
		resolved, _ = rules.DeclaredType(string(content))
	}
	if _, known := s.rules.Category(resolved); known {
		opts.Template = s.templateContent(ctx, resolved)
		opts.Example = s.readOptional(ctx, s.config.ExamplePath(resolved))
	}

	result := s.validator.CheckSpec(string(content), opts)
	result.Path = path
	return result, nil
}

// TypeEntry describes one configured template type.
type TypeEntry struct {
	Name         string `json:"name" yaml:"name"`
	TemplatePath string `json:"template_path" yaml:"template_path"`
	OutputDir    string `json:"output_dir" yaml:"output_dir"`
	Category     string `json:"category,omitempty" yaml:"category,omitempty"`
	IDPrefix     string `json:"id_prefix,omitempty" yaml:"id_prefix,omitempty"`
	Exists       bool   `json:"exists" yaml:"exists"`
}

// Listing is the result of ListTemplates.
type Listing struct {
	Types      []TypeEntry      `json:"types" yaml:"types"`
	Discovered []store.Template `json:"discovered,omitempty" yaml:"discovered,omitempty"`
}

// ListTemplates describes every configured type and, when discover is set,
// every template found under the templates root.
func (s *SpecService) ListTemplates(ctx context.Context, discover bool) (*Listing, error) {
	listing := &Listing{Types: []TypeEntry{}}
	for _, name := range s.config.TypeNames() {
		tt, err := s.config.TemplateType(name)
		if err != nil {
			return nil, err
		}
		templatePath, _ := s.config.TemplatePath(name)
		outputDir, _ := s.config.OutputDir(name)
		_, statErr := os.Stat(templatePath)

		listing.Types = append(listing.Types, TypeEntry{
			Name:         name,
			TemplatePath: templatePath,
			OutputDir:    outputDir,
			Category:     tt.Category,
			IDPrefix:     tt.IDPrefix,
			Exists:       statErr == nil,
		})
	}

	if discover {
		templates, err := s.store.List(ctx)
		if err != nil {
			return nil, err
		}
		listing.Discovered = templates
	}
	return listing, nil
}

// FixOptions contains options for the syntax repair
type FixOptions struct {
	// Root defaults to the templates root.
	Root          string
	TemplatesOnly bool
	DryRun        bool
}

// FixResult contains the repair report and the re-validation of every
// repaired document.
type FixResult struct {
	Report      *repair.Report
	Revalidated []*validator.Result
}

// FixSyntax converts legacy comment delimiters, then validates each file it
// rewrote.
func (s *SpecService) FixSyntax(ctx context.Context, opts FixOptions) (*FixResult, error) {
	root := opts.Root
	if root == "" {
		root = s.config.TemplatesRoot()
	}

	report, err := s.repairer.FixTree(ctx, root, repair.Options{
		Extension:     s.config.Extension,
		TemplatesOnly: opts.TemplatesOnly,
		DryRun:        opts.DryRun,
	})
	if err != nil {
		return nil, err
	}

	result := &FixResult{Report: report}
	if opts.DryRun {
		return result, nil
	}

	for _, path := range report.Fixed {
		var check *validator.Result
		if strings.HasPrefix(filepath.Base(path), repair.TemplatePrefix) {
			check, err = s.ValidateTemplate(ctx, path)
		} else {
			check, err = s.ValidateSpec(ctx, path, "")
		}
		if err != nil {
			report.Failures = append(report.Failures, repair.Failure{Path: path, Err: err})
			continue
		}
		result.Revalidated = append(result.Revalidated, check)
	}
	return result, nil
}

// templateContent returns the template of a type, or "" when it cannot be read.
func (s *SpecService) templateContent(ctx context.Context, typeName string) string {
	path, err := s.config.TemplatePath(typeName)
	if err != nil {
		return ""
	}
	return s.readOptional(ctx, path)
}

func (s *SpecService) readOptional(ctx context.Context, path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Debug(ctx, "Optional document unavailable", "path", path, "error", err)
		return ""
	}
	return string(data)
}
