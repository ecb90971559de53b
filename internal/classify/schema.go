package classify

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// zeroShotObjectSchema matches {"sequence": "...", "labels": [...], "scores": [...]}.
func zeroShotObjectSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sequence": map[string]any{"type": "string"},
			"labels":   map[string]any{"type": "array", "minItems": 1, "items": map[string]any{"type": "string"}},
			"scores":   map[string]any{"type": "array", "minItems": 1, "items": scoreProp()},
		},
		"required": []string{"labels", "scores"},
	}
}

// zeroShotListSchema matches [{"label": "...", "score": 0.9}, ...].
func zeroShotListSchema() map[string]any {
	return map[string]any{
		"type":     "array",
		"minItems": 1,
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"label": map[string]any{"type": "string"},
				"score": scoreProp(),
			},
			"required": []string{"label", "score"},
		},
	}
}

// BuildLabelJSONSchema constrains a chat model's answer to the vocabulary.
func BuildLabelJSONSchema(labels []string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"label":      map[string]any{"type": "string", "enum": labels},
			"confidence": scoreProp(),
		},
		"required": []string{"label", "confidence"},
	}
}

func scoreProp() map[string]any {
	return map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0}
}
