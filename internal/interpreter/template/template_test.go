package template

import (
	"reflect"
	"testing"
)

func TestSubstitute(t *testing.T) {
	data := map[string]any{
		"data": map[string]any{
			"from":  "alice@example.com",
			"count": 5,
		},
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"resolves dotted path", "From: {{data.from}}", "From: alice@example.com"},
		{"stringifies non-string", "Count: {{data.count}}", "Count: 5"},
		{"missing path left untouched", "Hi {{data.missing}}", "Hi {{data.missing}}"},
		{"no placeholders", "plain text", "plain text"},
		{"multiple placeholders", "{{data.from}} sent {{data.count}}", "alice@example.com sent 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Substitute(tt.in, data); got != tt.want {
				t.Fatalf("Substitute(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSubstituteConfig(t *testing.T) {
	data := map[string]any{"data": map[string]any{"name": "Bob"}}

	config := map[string]any{
		"text":    "Hello {{data.name}}",
		"channel": "#general",
		"count":   7,
	}

	got := SubstituteConfig(config, data)

	want := map[string]any{
		"text":    "Hello Bob",
		"channel": "#general",
		"count":   7,
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SubstituteConfig() = %+v, want %+v", got, want)
	}
}
