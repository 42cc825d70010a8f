package utils

import (
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
)

var testSchema = MustResolve(&jsonschema.Schema{
	Type:     "object",
	Required: []string{"name"},
	Properties: map[string]*jsonschema.Schema{
		"name":  {Type: "string", Enum: []any{"a", "b"}},
		"count": {Types: []string{"number", "null"}},
	},
})

type testTarget struct {
	Name  string   `json:"name"`
	Count *float64 `json:"count"`
}

func TestDecodeWithSchema(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		want    string
	}{
		{"valid", `{"name": "a", "count": 2}`, false, "a"},
		{"null field", `{"name": "b", "count": null}`, false, "b"},
		{"surrounding whitespace", "\n  {\"name\": \"a\"}  \n", false, "a"},
		{"empty", ``, true, ""},
		{"not json", `not json`, true, ""},
		{"top level null", `null`, true, ""},
		{"array", `[1,2]`, true, ""},
		{"missing required", `{"count": 1}`, true, ""},
		{"bad enum", `{"name": "c"}`, true, ""},
		{"wrong type", `{"name": "a", "count": "many"}`, true, ""},
		{"fenced", "```json\n{\"name\": \"a\"}\n```", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got testTarget
			err := DecodeWithSchema(tt.raw, testSchema, &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeWithSchema(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if !tt.wantErr && got.Name != tt.want {
				t.Errorf("Name = %q, want %q", got.Name, tt.want)
			}
		})
	}
}
