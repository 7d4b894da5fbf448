package services

import (
	"context"
	"os"
	"path/filepath"

	"github.com/conneroisu/specgen/internal/config"
	"github.com/conneroisu/specgen/internal/errors"
	"github.com/conneroisu/specgen/internal/logging"
	"github.com/conneroisu/specgen/internal/rules"
	"github.com/conneroisu/specgen/internal/scaffolding"
	"github.com/conneroisu/specgen/internal/validator"
)

// InitService handles project initialization business logic
type InitService struct {
	logger logging.Logger
}

// NewInitService creates a new initialization service
func NewInitService(logger logging.Logger) *InitService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &InitService{logger: logger.WithComponent("init")}
}

// InitOptions contains options for project initialization
type InitOptions struct {
	ProjectDir string
	// Minimal writes the configuration file only.
	Minimal bool
}

// InitResult lists what an initialization created. Existing files are
// never overwritten and are reported as skipped.
type InitResult struct {
	ConfigPath string
	Created    []string
	Skipped    []string
}

// InitProject writes the default configuration into opts.ProjectDir and,
// unless Minimal is set, a starter template for every configured type.
func (s *InitService) InitProject(ctx context.Context, opts InitOptions) (*InitResult, error) {
	if err := s.validateProjectDirectory(opts.ProjectDir); err != nil {
		return nil, err
	}

	result := &InitResult{ConfigPath: filepath.Join(opts.ProjectDir, config.DefaultFileName)}
	if err := config.WriteDefault(result.ConfigPath); err != nil {
		if !errors.IsOutputCollision(err) {
			return nil, err
		}
		result.Skipped = append(result.Skipped, result.ConfigPath)
	} else {
		result.Created = append(result.Created, result.ConfigPath)
	}

	if opts.Minimal {
		return result, nil
	}

	cfg := config.Default()
	cfg.BaseDir = opts.ProjectDir
	if err := s.createStarterTemplates(ctx, cfg, result); err != nil {
		return result, err
	}
	return result, nil
}

// validateProjectDirectory ensures the project directory exists
func (s *InitService) validateProjectDirectory(projectDir string) error {
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		return errors.WrapIO(err, errors.ErrCodeWriteFailed, "cannot create project directory").WithPath(projectDir)
	}
	return nil
}

// createStarterTemplates renders, checks and writes one template per type.
func (s *InitService) createStarterTemplates(ctx context.Context, cfg *config.Config, result *InitResult) error {
	rs, err := rules.FromConfig(cfg)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfigIncomplete, errors.ErrCodeConfigInvalid, "invalid rule set")
	}
	scaffolder, err := scaffolding.New(rs)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInternalError, "failed to prepare starter templates", err)
	}
	v := validator.New(rs, s.logger)

	for _, name := range cfg.TypeNames() {
		path, err := cfg.TemplatePath(name)
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil {
			result.Skipped = append(result.Skipped, path)
			continue
		}

		content, err := scaffolder.ForType(name)
		if err != nil {
			return err
		}
		if check := v.CheckTemplate(content, validator.Options{Category: name}); !check.Valid() {
			return errors.NewInternalError(errors.ErrCodeInternalError, "starter template failed validation", check.Err()).
				WithContext("type", name)
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.WrapIO(err, errors.ErrCodeWriteFailed, "failed to create template directory").WithPath(filepath.Dir(path))
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return errors.WrapIO(err, errors.ErrCodeWriteFailed, "failed to write starter template").WithPath(path)
		}

		s.logger.Info(ctx, "Created starter template", "type", name, "path", path)
		result.Created = append(result.Created, path)
	}
	return nil
}
