package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// configSchema constrains JSON config files. TOML and YAML configs are
// checked by Validate only; JSON is what editors generate completions
// against, so it gets the stricter treatment.
const configSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"entry": {
			"type": "array",
			"items": {"type": "string", "minLength": 1},
			"minItems": 1
		},
		"aliases": {
			"type": "object",
			"additionalProperties": {"type": "string"}
		},
		"extensions": {
			"type": "array",
			"items": {"type": "string", "pattern": "^\\."}
		},
		"rules": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"files": {"type": "boolean"},
				"exports": {"type": "boolean"},
				"dependencies": {"type": "boolean"},
				"cycles": {"type": "boolean"}
			}
		},
		"policy": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"type_only_usage": {"type": "boolean"},
				"dynamic_imports": {"enum": ["static", "ignore"]}
			}
		},
		"exclude": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"patterns": {"type": "array", "items": {"type": "string"}},
				"dirs": {"type": "array", "items": {"type": "string"}},
				"gitignore": {"type": "boolean"}
			}
		},
		"cache": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"enabled": {"type": "boolean"},
				"dir": {"type": "string"},
				"ttl": {"type": "integer", "minimum": 0}
			}
		},
		"output": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"format": {"enum": ["text", "json", "markdown", "toon"]},
				"color": {"type": "boolean"},
				"verbose": {"type": "boolean"}
			}
		},
		"workers": {"type": "integer", "minimum": 0}
	}
}`

// validateJSONFile validates a JSON config file against the schema.
func validateJSONFile(path string) error {
	schemaDoc, err := jsonschema.UnmarshalJSON(strings.NewReader(configSchema))
	if err != nil {
		return fmt.Errorf("internal schema error: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("sweepr://config.schema.json", schemaDoc); err != nil {
		return fmt.Errorf("internal schema error: %w", err)
	}
	schema, err := compiler.Compile("sweepr://config.schema.json")
	if err != nil {
		return fmt.Errorf("internal schema error: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	instance, err := jsonschema.UnmarshalJSON(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
