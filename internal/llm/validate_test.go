package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func personSchema() *Schema {
	return &Schema{
		Name: "test-person",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":  map[string]any{"type": "string"},
				"age":   map[string]any{"type": "integer", "minimum": 0},
				"house": map[string]any{"type": "string", "enum": []string{"red", "blue"}},
				"tags":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
			"required":             []string{"name", "age"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"all fields", `{"name":"Ada","age":36,"house":"red","tags":["math"]}`, true},
		{"required only", `{"name":"Ada","age":36}`, true},
		{"missing required", `{"name":"Ada"}`, false},
		{"wrong type", `{"name":"Ada","age":"old"}`, false},
		{"negative", `{"name":"Ada","age":-1}`, false},
		{"bad enum", `{"name":"Ada","age":1,"house":"green"}`, false},
		{"bad item", `{"name":"Ada","age":1,"tags":[1]}`, false},
		{"extra field", `{"name":"Ada","age":1,"pet":"cat"}`, false},
		{"malformed", `{name:}`, false},
		{"empty", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(personSchema(), json.RawMessage(tt.raw))
			if tt.valid {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("err = %v (%T), want *ErrInvalidResponse", err, err)
			}
			if string(inv.Content) != tt.raw {
				t.Errorf("Content = %q, want the raw response", inv.Content)
			}
		})
	}
}

func TestValidateResponse_NilSchemaAcceptsAnything(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not json`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
