package fortune

import (
	"encoding/json"
	"strings"
)

const fence = "```"

// SafeJSONParse extracts a JSON object from model output that may be
// wrapped in a single pair of code fences (optionally tagged, e.g. ```json).
// It returns nil for empty input, unbalanced fences, invalid JSON or a top
// level value that is not an object. Fences are only looked for when the
// text is not already an object, so string values may contain them.
func SafeJSONParse(text string) map[string]any {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil
	}
	if out := decodeObject(s); out != nil {
		return out
	}

	if strings.Count(s, fence) != 2 {
		return nil
	}
	open := strings.Index(s, fence)
	end := strings.LastIndex(s, fence)
	return decodeObject(strings.TrimSpace(stripLanguageTag(s[open+len(fence) : end])))
}

// decodeObject returns s as an object, or nil when it is anything else.
func decodeObject(s string) map[string]any {
	if s == "" {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

// stripLanguageTag drops an info string such as "json" that directly
// follows an opening fence.
func stripLanguageTag(s string) string {
	trimmed := strings.TrimLeft(s, " \t")
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "\n") || strings.HasPrefix(trimmed, "\r") {
		return s
	}
	if i := strings.IndexAny(trimmed, "{\n"); i >= 0 {
		return trimmed[i:]
	}
	return trimmed
}
