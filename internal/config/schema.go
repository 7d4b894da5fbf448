package config

import (
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// configSchema describes the shape of a configuration file.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "paths": {
      "type": "object",
      "properties": {
        "templates_root": {"type": "string", "minLength": 1},
        "output_root": {"type": "string", "minLength": 1},
        "base_template": {"type": "string"},
        "examples_root": {"type": "string"}
      }
    },
    "extension": {"type": "string", "pattern": "^\\.?[A-Za-z0-9]+$"},
    "template_types": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["template", "output_dir"],
        "properties": {
          "template": {"type": "string", "minLength": 1},
          "output_dir": {"type": "string", "minLength": 1},
          "id_prefix": {"type": "string"},
          "category": {"type": "string"},
          "example": {"type": "string"},
          "required_fields": {"type": "array", "items": {"type": "string"}},
          "required_sections": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "validation": {
      "type": "object",
      "properties": {
        "comment_start": {"type": "string", "minLength": 1},
        "comment_end": {"type": "string", "minLength": 1},
        "legacy_comment_start": {"type": "string", "minLength": 1},
        "legacy_comment_end": {"type": "string", "minLength": 1},
        "required_sections": {"type": "array", "items": {"type": "string"}},
        "required_placeholders": {"type": "array", "items": {"type": "string", "pattern": "^[^{}$]+$"}},
        "base_sections": {"type": "array", "items": {"type": "string"}},
        "id_formats": {"type": "object", "additionalProperties": {"type": "string"}}
      }
    },
    "relationships": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "contains": {"type": "array", "items": {"type": "string"}},
          "references": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "logging": {
      "type": "object",
      "properties": {
        "level": {"enum": ["debug", "info", "warn", "warning", "error", "DEBUG", "INFO", "WARN", "ERROR"]},
        "format": {"enum": ["text", "json"]}
      }
    }
  }
}`

// ValidateSchema checks raw settings, such as viper.AllSettings(), against the
// configuration schema and returns one message per violation.
func ValidateSchema(settings map[string]interface{}) ([]string, error) {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	documentLoader := gojsonschema.NewGoLoader(settings)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	errs := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		errs[i] = desc.String()
	}
	sort.Strings(errs)
	return errs, nil
}

// Settings converts the configuration into the generic map form viper exposes.
func (c *Config) Settings() (map[string]interface{}, error) {
	data, err := c.Marshal()
	if err != nil {
		return nil, err
	}
	settings := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return settings, nil
}
