// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/findoc/pkg/types"
)

// ErrInvalidExtraction wraps schema violations found in an extraction
// file.
var ErrInvalidExtraction = errors.New("extraction file does not match schema")

const schemaURL = "findoc-extraction.json"

// ExtractionSchema returns the JSON schema of an extracted/*-fields.yaml
// file, derived from the field table.
func ExtractionSchema() map[string]any {
	categories := make(map[string]any, len(types.Categories))
	for _, cat := range types.Categories {
		props := make(map[string]any)
		for _, spec := range types.FieldsIn(cat) {
			props[string(spec.ID)] = map[string]any{"type": jsonType(spec.Kind)}
		}
		categories[string(cat)] = map[string]any{
			"type":                 "object",
			"properties":           props,
			"additionalProperties": false,
		}
	}

	resultProps := map[string]any{
		"extraction_timestamp":   map[string]any{"type": "string"},
		"total_fields_extracted": map[string]any{"type": "integer", "minimum": 0},
		"extraction_complete":    map[string]any{"type": "boolean"},
		"error":                  map[string]any{"type": "string"},
	}
	for k, v := range categories {
		resultProps[k] = v
	}

	return map[string]any{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"properties": map[string]any{
			"document": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":           map[string]any{"type": "integer"},
					"key":          map[string]any{"type": "string", "minLength": 1},
					"filename":     map[string]any{"type": "string"},
					"source_kind":  map[string]any{"enum": []any{"pdf", "image", "html", "text"}},
					"text_length":  map[string]any{"type": "integer", "minimum": 0},
					"processed_at": map[string]any{"type": "string"},
				},
				"required": []any{"key"},
			},
			"result": map[string]any{
				"type":       "object",
				"properties": resultProps,
				"required":   []any{"total_fields_extracted", "extraction_complete"},
			},
		},
		"required": []any{"document", "result"},
	}
}

func jsonType(kind types.ValueKind) string {
	switch kind {
	case types.KindInteger:
		return "integer"
	case types.KindDecimal:
		return "number"
	default:
		return "string"
	}
}

// validator checks extraction files against ExtractionSchema.
type validator struct {
	schema *jsonschema.Schema
}

func newValidator() (*validator, error) {
	b, err := json.Marshal(ExtractionSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &validator{schema: schema}, nil
}

// decode validates YAML data and unmarshals it into a DocumentExtraction.
// The YAML is normalized through JSON first so the validator sees JSON
// types.
func (v *validator) decode(data []byte) (*types.DocumentExtraction, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	js, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("normalizing: %w", err)
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(js))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("normalizing: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExtraction, err)
	}

	var out types.DocumentExtraction
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return &out, nil
}
