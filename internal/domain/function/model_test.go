package function_test

import (
	"testing"

	"assistant-platform/services/function-gateway/internal/domain/function"
)

func TestSanitizeSchema_PassesValidSchemaThrough(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
	}

	got := function.SanitizeSchema(schema)
	if props, ok := got["properties"].(map[string]any); !ok || len(props) != 1 {
		t.Errorf("valid schema must be returned unchanged, got %v", got)
	}
}

func TestSanitizeSchema_ReplacesMalformedSchemas(t *testing.T) {
	cases := []map[string]any{
		nil,
		{"type": "string"},
		{"type": "object"},
		{"properties": map[string]any{}},
	}

	for i, schema := range cases {
		got := function.SanitizeSchema(schema)
		if got["type"] != "object" {
			t.Errorf("case %d: expected object schema, got %v", i, got)
		}
		if props, ok := got["properties"].(map[string]any); !ok || len(props) != 0 {
			t.Errorf("case %d: expected empty properties, got %v", i, got)
		}
	}
}
