// Package template resolves `{{path.with.dots}}` references against a
// trigger payload. Unlike the teacher's pkg/template (built on
// text/template), a missing path must leave the literal placeholder in
// place rather than rendering "<no value>" or erroring, so substitution is
// hand-rolled.
package template

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholder = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.]+)\s*\}\}`)

// Substitute replaces every `{{path}}` occurrence in s with the dotted-path
// lookup in data. A missing or null lookup leaves the original
// `{{path}}` text untouched.
func Substitute(s string, data map[string]any) string {
	return placeholder.ReplaceAllStringFunc(s, func(match string) string {
		sub := placeholder.FindStringSubmatch(match)
		if sub == nil {
			return match
		}

		value, ok := lookup(data, sub[1])
		if !ok || value == nil {
			return match
		}

		return stringify(value)
	})
}

// SubstituteConfig applies Substitute to every string value in config,
// leaving other types untouched. It does not recurse into nested maps or
// slices, mirroring the flat action-config shape in the action table.
func SubstituteConfig(config map[string]any, data map[string]any) map[string]any {
	out := make(map[string]any, len(config))

	for k, v := range config {
		if s, ok := v.(string); ok {
			out[k] = Substitute(s, data)
			continue
		}

		out[k] = v
	}

	return out
}

func lookup(data map[string]any, path string) (any, bool) {
	var cur any = data

	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}

		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}

	return cur, true
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", v)
}
