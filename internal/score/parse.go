package score

import (
	"encoding/json"
	"regexp"
)

var (
	fencedJSONPattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	// Matches brace-delimited objects up to one nesting level deep, which is
	// enough for a prediction object with a reasoning sub-object.
	braceObjectPattern = regexp.MustCompile(`(?s)\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)
)

// ParseResponse extracts a prediction object from raw model output. It tries,
// in order: a ```json fenced block, the whole response as JSON, and finally
// any brace-delimited substring that parses and carries at least one expected
// key. If nothing works it returns an empty map, never an error; the
// calculator then treats every field of the case as unscorable or incorrect
// per its own rules.
func ParseResponse(responseText string) map[string]any {
	if m := fencedJSONPattern.FindStringSubmatch(responseText); m != nil {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(m[1]), &parsed); err == nil {
			return parsed
		}
	}

	var whole map[string]any
	if err := json.Unmarshal([]byte(responseText), &whole); err == nil {
		return whole
	}

	for _, candidate := range braceObjectPattern.FindAllString(responseText, -1) {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
			continue
		}
		if _, ok := parsed["resolution_type"]; ok {
			return parsed
		}
		if _, ok := parsed["has_injunction"]; ok {
			return parsed
		}
	}

	return map[string]any{}
}
