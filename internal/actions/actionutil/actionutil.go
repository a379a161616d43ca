// Package actionutil holds small helpers shared by the action packages:
// config-map field extraction, mirroring the args helpers in
// internal/dispatcher.
package actionutil

// Str reads a string field from config, defaulting to "".
func Str(config map[string]any, key string) string {
	if v, ok := config[key].(string); ok {
		return v
	}

	return ""
}

// FirstStr returns the first non-empty string field among keys, in
// order, supporting the field aliases spec.md §4.10's action table
// lists for some actions (e.g. send_channel_message's message/text/
// description).
func FirstStr(config map[string]any, keys ...string) string {
	for _, key := range keys {
		if v := Str(config, key); v != "" {
			return v
		}
	}

	return ""
}

// Success builds the standard result map for an action that completed
// its side effect, carrying the required status/detail pair (spec.md
// §4.10) plus any provider-specific fields in extra.
func Success(detail string, extra map[string]any) map[string]any {
	out := map[string]any{"status": "success", "detail": detail}

	for k, v := range extra {
		out[k] = v
	}

	return out
}

// ConfigFailure builds the standard result map for a configuration-level
// failure (missing or invalid fields). It is returned as the action's
// result, not a raised error, so the interpreter stops the walk without
// the executor treating it as a retryable run failure (spec.md §4.10,
// §7) — only transport/provider failures raise.
func ConfigFailure(detail string) map[string]any {
	return map[string]any{"status": "failed", "detail": detail}
}

// StrSlice reads a []string field from config (tolerating a []any of
// strings, as produced by JSON decoding), defaulting to nil.
func StrSlice(config map[string]any, key string) []string {
	switch v := config[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))

		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}

		return out
	default:
		return nil
	}
}
