package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"two-doc-checker/internal/models"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func relatednessSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"score", "label", "explain"},
		"properties": map[string]any{
			"score": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			"label": map[string]any{"enum": []string{
				string(models.LabelRelated),
				string(models.LabelPossiblyRelated),
				string(models.LabelUnrelated),
			}},
			"explain": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
	}
}

func findingSchema() map[string]any {
	text := map[string]any{"type": []string{"string", "number", "null"}}
	excerpt := map[string]any{"type": []string{"string", "null"}, "maxLength": models.MaxExcerptLen}
	return map[string]any{
		"type":     "object",
		"required": []string{"code", "type", "severity"},
		"properties": map[string]any{
			"code":                 map[string]any{"enum": models.FindingCodes},
			"type":                 map[string]any{"enum": models.FindingTypes},
			"severity":             map[string]any{"enum": models.Severities},
			"confidence":           map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			"expected":             text,
			"actual":               text,
			"a_excerpt":            excerpt,
			"b_excerpt":            excerpt,
			"a_location":           text,
			"b_location":           text,
			"suggested_resolution": text,
		},
	}
}

// ReplyValidator checks decoded model replies against the expected shapes.
// A violation is advisory: callers log it and normalize the value anyway.
type ReplyValidator struct {
	relatedness *jsonschema.Schema
	finding     *jsonschema.Schema
}

func NewReplyValidator() (*ReplyValidator, error) {
	rel, err := compileSchema("relatedness.json", relatednessSchema())
	if err != nil {
		return nil, err
	}
	f, err := compileSchema("finding.json", findingSchema())
	if err != nil {
		return nil, err
	}
	return &ReplyValidator{relatedness: rel, finding: f}, nil
}

func compileSchema(name string, schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", name, err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return schema, nil
}

func (v *ReplyValidator) CheckRelatedness(reply any) error {
	if err := v.relatedness.Validate(reply); err != nil {
		return fmt.Errorf("relatedness reply does not match schema: %w", err)
	}
	return nil
}

func (v *ReplyValidator) CheckFinding(item any) error {
	if err := v.finding.Validate(item); err != nil {
		return fmt.Errorf("finding does not match schema: %w", err)
	}
	return nil
}
