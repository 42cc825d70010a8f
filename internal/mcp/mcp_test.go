package mcp

import (
	"encoding/json"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
)

func TestParseToolName(t *testing.T) {
	tests := []struct {
		input      string
		wantClient string
		wantTool   string
		wantOk     bool
	}{
		{"catalog.search_products", "catalog", "search_products", true},
		{" catalog.search ", "catalog", "search", true},
		{"catalog", "", "", false},
		{".search", "", "", false},
		{"catalog.", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		c, tool, ok := ParseToolName(tt.input)
		if c != tt.wantClient || tool != tt.wantTool || ok != tt.wantOk {
			t.Errorf("ParseToolName(%q) = (%q, %q, %v), want (%q, %q, %v)", tt.input, c, tool, ok, tt.wantClient, tt.wantTool, tt.wantOk)
		}
	}
}

func TestCoerceArguments(t *testing.T) {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"limit":     {Type: "integer"},
			"price_max": {Type: "number"},
			"in_stock":  {Type: "boolean"},
			"keyword":   {Type: "string"},
		},
	}

	got, err := coerceArguments(json.RawMessage(`{"limit":"5","price_max":"20000000","in_stock":"true","keyword":"laptop","extra":"1"}`), schema)
	if err != nil {
		t.Fatalf("coerceArguments error: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(got, &m); err != nil {
		t.Fatal(err)
	}
	if m["limit"] != float64(5) || m["price_max"] != float64(20000000) || m["in_stock"] != true {
		t.Errorf("numbers not coerced: %v", m)
	}
	if m["keyword"] != "laptop" || m["extra"] != "1" {
		t.Errorf("strings changed: %v", m)
	}

	if out, err := coerceArguments(json.RawMessage(`null`), schema); err != nil || string(out) != "null" {
		t.Errorf("null arguments = %s, %v", out, err)
	}
	if _, err := coerceArguments(json.RawMessage(`[1]`), schema); err == nil {
		t.Error("array arguments should fail to decode")
	}
}
