// Package config provides configuration management for specgen using Viper
// for loading from files, environment variables, and command-line flags.
//
// The configuration names the templates root, the output root, and every
// template type the generator knows about: where its template lives, which
// output directory receives generated specifications, its identifier prefix
// and format, and the sections and fields a specification of that type must
// carry. Validation tokens (comment delimiters, required blocks, required
// placeholders) are configurable so the rule set can be rebuilt from data.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/conneroisu/specgen/internal/errors"
)

// DefaultFileName is the configuration file looked up in the working directory.
const DefaultFileName = ".specgen.yml"

type Config struct {
	Paths         PathsConfig                   `yaml:"paths" mapstructure:"paths" json:"paths"`
	Extension     string                        `yaml:"extension" mapstructure:"extension" json:"extension"`
	TemplateTypes map[string]TemplateTypeConfig `yaml:"template_types" mapstructure:"template_types" json:"template_types"`
	Validation    ValidationConfig              `yaml:"validation" mapstructure:"validation" json:"validation"`
	Relationships map[string]RelationshipConfig `yaml:"relationships,omitempty" mapstructure:"relationships" json:"relationships,omitempty"`
	Logging       LoggingConfig                 `yaml:"logging" mapstructure:"logging" json:"logging"`

	// BaseDir anchors relative paths; it is the directory of the loaded
	// configuration file, or the working directory.
	BaseDir string `yaml:"-" mapstructure:"-" json:"-"`
}

type PathsConfig struct {
	TemplatesRoot string `yaml:"templates_root" mapstructure:"templates_root" json:"templates_root"`
	OutputRoot    string `yaml:"output_root" mapstructure:"output_root" json:"output_root"`
	BaseTemplate  string `yaml:"base_template" mapstructure:"base_template" json:"base_template"`
	ExamplesRoot  string `yaml:"examples_root,omitempty" mapstructure:"examples_root" json:"examples_root,omitempty"`
}

type TemplateTypeConfig struct {
	Template         string   `yaml:"template" mapstructure:"template" json:"template"`
	OutputDir        string   `yaml:"output_dir" mapstructure:"output_dir" json:"output_dir"`
	IDPrefix         string   `yaml:"id_prefix,omitempty" mapstructure:"id_prefix" json:"id_prefix,omitempty"`
	Category         string   `yaml:"category,omitempty" mapstructure:"category" json:"category,omitempty"`
	Example          string   `yaml:"example,omitempty" mapstructure:"example" json:"example,omitempty"`
	RequiredFields   []string `yaml:"required_fields,omitempty" mapstructure:"required_fields" json:"required_fields,omitempty"`
	RequiredSections []string `yaml:"required_sections,omitempty" mapstructure:"required_sections" json:"required_sections,omitempty"`
}

type ValidationConfig struct {
	CommentStart         string            `yaml:"comment_start" mapstructure:"comment_start" json:"comment_start"`
	CommentEnd           string            `yaml:"comment_end" mapstructure:"comment_end" json:"comment_end"`
	LegacyCommentStart   string            `yaml:"legacy_comment_start" mapstructure:"legacy_comment_start" json:"legacy_comment_start"`
	LegacyCommentEnd     string            `yaml:"legacy_comment_end" mapstructure:"legacy_comment_end" json:"legacy_comment_end"`
	RequiredBlocks       []string          `yaml:"required_sections" mapstructure:"required_sections" json:"required_sections"`
	RequiredPlaceholders []string          `yaml:"required_placeholders" mapstructure:"required_placeholders" json:"required_placeholders"`
	BaseSections         []string          `yaml:"base_sections" mapstructure:"base_sections" json:"base_sections"`
	IDFormats            map[string]string `yaml:"id_formats,omitempty" mapstructure:"id_formats" json:"id_formats,omitempty"`
}

type RelationshipConfig struct {
	Contains   []string `yaml:"contains,omitempty" mapstructure:"contains" json:"contains,omitempty"`
	References []string `yaml:"references,omitempty" mapstructure:"references" json:"references,omitempty"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level" json:"level"`
	Format string `yaml:"format" mapstructure:"format" json:"format"`
}

// Load reads the configuration held by the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom unmarshals v, fills unset values with defaults and validates the result.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfigIncomplete, errors.ErrCodeConfigInvalid,
			"failed to decode configuration")
	}

	// Handle slices set via viper (workaround for viper slice handling)
	if v.IsSet("validation.required_sections") && len(config.Validation.RequiredBlocks) == 0 {
		config.Validation.RequiredBlocks = v.GetStringSlice("validation.required_sections")
	}
	if v.IsSet("validation.required_placeholders") && len(config.Validation.RequiredPlaceholders) == 0 {
		config.Validation.RequiredPlaceholders = v.GetStringSlice("validation.required_placeholders")
	}
	if v.IsSet("validation.base_sections") && len(config.Validation.BaseSections) == 0 {
		config.Validation.BaseSections = v.GetStringSlice("validation.base_sections")
	}

	config.BaseDir = "."
	if used := v.ConfigFileUsed(); used != "" {
		config.BaseDir = filepath.Dir(used)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfigIncomplete, errors.ErrCodeConfigInvalid,
			"invalid configuration")
	}

	return &config, nil
}

// applyDefaults fills every zero-valued setting from Default.
func applyDefaults(config *Config) {
	def := Default()

	if config.Paths.TemplatesRoot == "" {
		config.Paths.TemplatesRoot = def.Paths.TemplatesRoot
	}
	if config.Paths.OutputRoot == "" {
		config.Paths.OutputRoot = def.Paths.OutputRoot
	}
	if config.Paths.BaseTemplate == "" {
		config.Paths.BaseTemplate = def.Paths.BaseTemplate
	}
	if config.Extension == "" {
		config.Extension = def.Extension
	}
	config.Extension = strings.TrimPrefix(config.Extension, ".")
	if len(config.TemplateTypes) == 0 {
		config.TemplateTypes = def.TemplateTypes
	}

	val := &config.Validation
	if val.CommentStart == "" {
		val.CommentStart = def.Validation.CommentStart
	}
	if val.CommentEnd == "" {
		val.CommentEnd = def.Validation.CommentEnd
	}
	if val.LegacyCommentStart == "" {
		val.LegacyCommentStart = def.Validation.LegacyCommentStart
	}
	if val.LegacyCommentEnd == "" {
		val.LegacyCommentEnd = def.Validation.LegacyCommentEnd
	}
	if len(val.RequiredBlocks) == 0 {
		val.RequiredBlocks = def.Validation.RequiredBlocks
	}
	if len(val.RequiredPlaceholders) == 0 {
		val.RequiredPlaceholders = def.Validation.RequiredPlaceholders
	}
	if len(val.BaseSections) == 0 {
		val.BaseSections = def.Validation.BaseSections
	}
	if val.IDFormats == nil {
		val.IDFormats = def.Validation.IDFormats
	}

	if config.Logging.Level == "" {
		config.Logging.Level = def.Logging.Level
	}
	if config.Logging.Format == "" {
		config.Logging.Format = def.Logging.Format
	}
}

// validateConfig validates configuration values for correctness
func validateConfig(config *Config) error {
	if err := validatePath(config.Paths.TemplatesRoot); err != nil {
		return fmt.Errorf("paths.templates_root: %w", err)
	}
	if err := validatePath(config.Paths.OutputRoot); err != nil {
		return fmt.Errorf("paths.output_root: %w", err)
	}
	if strings.ContainsAny(config.Extension, `/\`) {
		return fmt.Errorf("extension %q must not contain path separators", config.Extension)
	}

	for name, tt := range config.TemplateTypes {
		if err := validateTemplateType(tt); err != nil {
			return fmt.Errorf("template_types.%s: %w", name, err)
		}
	}

	if err := validateValidationConfig(&config.Validation); err != nil {
		return fmt.Errorf("validation: %w", err)
	}

	return nil
}

// validateTemplateType validates a single template type entry
func validateTemplateType(tt TemplateTypeConfig) error {
	if tt.Template == "" {
		return fmt.Errorf("template path is required")
	}
	if err := validatePath(tt.Template); err != nil {
		return fmt.Errorf("template: %w", err)
	}
	if tt.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if err := validatePath(tt.OutputDir); err != nil {
		return fmt.Errorf("output_dir: %w", err)
	}
	if filepath.IsAbs(tt.OutputDir) {
		return fmt.Errorf("output_dir should be relative to output_root: %s", tt.OutputDir)
	}
	return nil
}

// validateValidationConfig checks comment tokens and identifier patterns
func validateValidationConfig(val *ValidationConfig) error {
	if val.CommentStart == val.CommentEnd {
		return fmt.Errorf("comment_start and comment_end must differ")
	}
	if val.LegacyCommentStart == val.LegacyCommentEnd {
		return fmt.Errorf("legacy_comment_start and legacy_comment_end must differ")
	}
	for prefix, pattern := range val.IDFormats {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("id_formats.%s: invalid pattern %q: %w", prefix, pattern, err)
		}
	}
	return nil
}

// validatePath validates a configured path
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "<", ">", "\""}
	for _, char := range dangerousChars {
		if strings.Contains(path, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}

// Resolve anchors a relative path at BaseDir.
func (c *Config) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	base := c.BaseDir
	if base == "" {
		base = "."
	}
	return filepath.Join(base, path)
}

// TemplatesRoot returns the resolved templates root directory.
func (c *Config) TemplatesRoot() string {
	return c.Resolve(c.Paths.TemplatesRoot)
}

// OutputRoot returns the resolved output root directory.
func (c *Config) OutputRoot() string {
	return c.Resolve(c.Paths.OutputRoot)
}

// TypeNames returns the configured template type names, sorted.
func (c *Config) TypeNames() []string {
	names := make([]string, 0, len(c.TemplateTypes))
	for name := range c.TemplateTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TemplateType looks up a template type, reporting unknown names as
// config_incomplete errors with suggestions.
func (c *Config) TemplateType(name string) (TemplateTypeConfig, error) {
	tt, ok := c.TemplateTypes[name]
	if !ok {
		tt, ok = c.TemplateTypes[strings.ToLower(name)]
	}
	if !ok {
		return TemplateTypeConfig{}, errors.ErrUnknownTemplateType(name, c.TypeNames())
	}
	return tt, nil
}

// TemplatePath returns the resolved template file for a type.
func (c *Config) TemplatePath(name string) (string, error) {
	tt, err := c.TemplateType(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.TemplatesRoot(), filepath.FromSlash(tt.Template)), nil
}

// OutputDir returns the directory generated specifications of a type go to.
func (c *Config) OutputDir(name string) (string, error) {
	tt, err := c.TemplateType(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.OutputRoot(), filepath.FromSlash(tt.OutputDir)), nil
}

// ExamplePath returns the worked example for a type, or "" when none is configured.
func (c *Config) ExamplePath(name string) string {
	tt, err := c.TemplateType(name)
	if err != nil || tt.Example == "" {
		return ""
	}
	root := c.Paths.ExamplesRoot
	if root == "" {
		root = c.Paths.TemplatesRoot
	}
	return filepath.Join(c.Resolve(root), filepath.FromSlash(tt.Example))
}

// IDFormat returns the identifier pattern registered for the type's prefix.
func (c *Config) IDFormat(name string) string {
	tt, err := c.TemplateType(name)
	if err != nil || tt.IDPrefix == "" {
		return ""
	}
	// viper lower-cases map keys, so prefixes compare case-insensitively
	for prefix, pattern := range c.Validation.IDFormats {
		if strings.EqualFold(prefix, tt.IDPrefix) {
			return pattern
		}
	}
	return ""
}

// RelationshipsFor returns the relationship requirements of a type.
func (c *Config) RelationshipsFor(name string) RelationshipConfig {
	if rel, ok := c.Relationships[name]; ok {
		return rel
	}
	return c.Relationships[strings.ToLower(name)]
}

// TypeForTemplate maps a template file back to the type that declares it.
func (c *Config) TypeForTemplate(path string) (string, bool) {
	target, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	for _, name := range c.TypeNames() {
		candidate, err := c.TemplatePath(name)
		if err != nil {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if abs == target {
			return name, true
		}
	}
	return "", false
}

// TypeForOutputDir maps a directory back to the type whose specifications it holds.
func (c *Config) TypeForOutputDir(dir string) (string, bool) {
	target, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for _, name := range c.TypeNames() {
		candidate, _ := c.OutputDir(name)
		if abs, err := filepath.Abs(candidate); err == nil && abs == target {
			return name, true
		}
	}
	return "", false
}

// exists reports whether path names an existing file or directory.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
