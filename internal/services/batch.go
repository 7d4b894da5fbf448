package services

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/conneroisu/specgen/internal/errors"
	"github.com/conneroisu/specgen/internal/logging"
	"github.com/conneroisu/specgen/internal/repair"
	"github.com/conneroisu/specgen/internal/validator"
)

// FileFailure records a document that could not be validated.
type FileFailure struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
	err   error
}

// Unwrap returns the underlying error.
func (f FileFailure) Unwrap() error {
	return f.err
}

// BatchReport is the outcome of validating every configured template and
// every generated specification.
type BatchReport struct {
	RunID     string              `json:"run_id" yaml:"run_id"`
	StartedAt time.Time           `json:"started_at" yaml:"started_at"`
	Duration  time.Duration       `json:"duration" yaml:"duration"`
	Templates []*validator.Result `json:"templates" yaml:"templates"`
	Specs     []*validator.Result `json:"specs" yaml:"specs"`
	Failures  []FileFailure       `json:"failures" yaml:"failures"`
}

// Valid reports whether every document validated and none failed to load.
func (r *BatchReport) Valid() bool {
	return r.ErrorCount() == 0 && len(r.Failures) == 0
}

// ErrorCount returns the number of validation errors across all documents.
func (r *BatchReport) ErrorCount() int {
	n := 0
	for _, res := range r.all() {
		n += len(res.Errors)
	}
	return n
}

// WarningCount returns the number of warnings across all documents.
func (r *BatchReport) WarningCount() int {
	n := 0
	for _, res := range r.all() {
		n += len(res.Warnings)
	}
	return n
}

func (r *BatchReport) all() []*validator.Result {
	return append(append([]*validator.Result(nil), r.Templates...), r.Specs...)
}

// ValidateAll validates every configured template, then every specification
// in each type's output directory. A document that cannot be read is
// recorded and the run continues.
func (s *SpecService) ValidateAll(ctx context.Context) (*BatchReport, error) {
	report := &BatchReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Templates: []*validator.Result{},
		Specs:     []*validator.Result{},
		Failures:  []FileFailure{},
	}
	logger := s.logger.With("run_id", report.RunID)
	perf := logging.StartOperation(logger, "validate_all")

	for _, name := range s.config.TypeNames() {
		if err := ctx.Err(); err != nil {
			return report, canceled(err)
		}
		path, err := s.config.TemplatePath(name)
		if err != nil {
			report.fail(path, err)
			continue
		}
		result, err := s.ValidateTemplate(ctx, path)
		if err != nil {
			logger.Warn(ctx, err, "Template could not be validated", "type", name, "path", path)
			report.fail(path, err)
			continue
		}
		report.Templates = append(report.Templates, result)
	}

	for _, name := range s.config.TypeNames() {
		dir, err := s.config.OutputDir(name)
		if err != nil {
			continue
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			logger.Debug(ctx, "No specifications generated yet", "type", name, "dir", dir)
			continue
		}

		paths, err := repair.Collect(dir, s.config.Extension, false)
		if err != nil {
			report.fail(dir, err)
			continue
		}
		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				return report, canceled(err)
			}
			result, err := s.ValidateSpec(ctx, path, name)
			if err != nil {
				logger.Warn(ctx, err, "Specification could not be validated", "type", name, "path", path)
				report.fail(path, err)
				continue
			}
			report.Specs = append(report.Specs, result)
		}
	}

	report.Duration = time.Since(report.StartedAt)
	perf.End(ctx,
		"templates", len(report.Templates),
		"specs", len(report.Specs),
		"errors", report.ErrorCount(),
		"failures", len(report.Failures))

	return report, nil
}

func (r *BatchReport) fail(path string, err error) {
	r.Failures = append(r.Failures, FileFailure{Path: path, Error: err.Error(), err: err})
}

func canceled(err error) error {
	return errors.Wrap(err, errors.ErrorTypeInternal, errors.ErrCodeOperationCanceled, "validation canceled")
}
