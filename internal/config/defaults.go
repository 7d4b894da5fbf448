package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/conneroisu/specgen/internal/errors"
)

// BaseSections are the headings every template inherits from the base template.
var BaseSections = []string{
	"Document Identification",
	"Purpose and Scope",
	"Context",
	"Core Content",
	"Relationships and Dependencies",
	"Success Metrics",
	"Validation Criteria",
}

// Default returns the configuration written when no configuration file exists.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			TemplatesRoot: ".",
			OutputRoot:    "output",
			BaseTemplate:  "09-Resources/01-Templates/Core_Templates/base_template.mdx",
		},
		Extension: "mdx",
		TemplateTypes: map[string]TemplateTypeConfig{
			"sprint": {
				Template:       "05-Agile_Planning/01-Sprint_Planning/TEMPLATE-sprint-planning.mdx",
				OutputDir:      "sprints",
				IDPrefix:       "SPRINT-",
				Category:       "agile_planning",
				RequiredFields: []string{"id", "type", "version"},
			},
			"architecture": {
				Template:       "03-Design_and_Architecture/01-System_Architecture/TEMPLATE-architecture-overview.mdx",
				OutputDir:      "architecture",
				IDPrefix:       "ARCH-",
				Category:       "design_and_architecture",
				RequiredFields: []string{"id", "type", "version"},
			},
			"persona": {
				Template:       "02-Requirements/01-User_Personas/TEMPLATE-persona.mdx",
				OutputDir:      "personas",
				IDPrefix:       "PER-",
				Category:       "requirements",
				RequiredFields: []string{"id", "type", "version"},
			},
			"schema": {
				Template:       "03-Design_and_Architecture/05-Database_Design/TEMPLATE-schema-design.mdx",
				OutputDir:      "database",
				IDPrefix:       "SCHEMA-",
				Category:       "design_and_architecture",
				RequiredFields: []string{"id", "type", "version"},
			},
		},
		Validation: ValidationConfig{
			CommentStart:       "{/*",
			CommentEnd:         "*/}",
			LegacyCommentStart: "<!--",
			LegacyCommentEnd:   "-->",
			RequiredBlocks:     []string{"template:", "metadata:", "ai_assistance:"},
			RequiredPlaceholders: []string{
				"ISO_TIMESTAMP",
				"DOCUMENT_KEY",
				"VERSION",
				"AUTHOR",
				"LAST_UPDATED_DATE",
			},
			BaseSections: append([]string(nil), BaseSections...),
			IDFormats: map[string]string{
				"SPRINT-": `^SPRINT-[A-Za-z0-9][A-Za-z0-9_.-]*$`,
				"ARCH-":   `^ARCH-[A-Za-z0-9][A-Za-z0-9_.-]*$`,
				"PER-":    `^PER-[A-Za-z0-9][A-Za-z0-9_.-]*$`,
				"SCHEMA-": `^SCHEMA-[A-Za-z0-9][A-Za-z0-9_.-]*$`,
			},
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteDefault writes the default configuration to path. An existing file is
// left alone and reported as an error.
func WriteDefault(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := Default().Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}

	header := []byte("# specgen configuration\n# Paths are relative to this file.\n")

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return errors.NewOutputCollisionError(path)
		}
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(header, data...)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
