package actionutil

import (
	"reflect"
	"testing"
)

func TestStr(t *testing.T) {
	config := map[string]any{"channel": "#general", "count": 3}

	if got := Str(config, "channel"); got != "#general" {
		t.Fatalf("Str() = %q, want %q", got, "#general")
	}

	if got := Str(config, "count"); got != "" {
		t.Fatalf("Str() = %q, want empty for non-string value", got)
	}

	if got := Str(config, "missing"); got != "" {
		t.Fatalf("Str() = %q, want empty for missing key", got)
	}
}

func TestStrSlice(t *testing.T) {
	config := map[string]any{
		"native": []string{"a", "b"},
		"decoded": []any{"c", "d"},
		"mixed":   []any{"e", 5},
		"bogus":   "not a slice",
	}

	if got := StrSlice(config, "native"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("StrSlice(native) = %v", got)
	}

	if got := StrSlice(config, "decoded"); !reflect.DeepEqual(got, []string{"c", "d"}) {
		t.Fatalf("StrSlice(decoded) = %v", got)
	}

	if got := StrSlice(config, "mixed"); !reflect.DeepEqual(got, []string{"e"}) {
		t.Fatalf("StrSlice(mixed) = %v, want only the string element kept", got)
	}

	if got := StrSlice(config, "bogus"); got != nil {
		t.Fatalf("StrSlice(bogus) = %v, want nil", got)
	}

	if got := StrSlice(config, "missing"); got != nil {
		t.Fatalf("StrSlice(missing) = %v, want nil", got)
	}
}
