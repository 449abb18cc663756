package score

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeResolutionType lowers, trims, and maps spaces and hyphens to
// underscores so "Settled Action" and "settled-action" compare equal. A nil
// value normalizes to the empty string.
func NormalizeResolutionType(value any) string {
	if value == nil {
		return ""
	}
	s, ok := value.(string)
	if !ok {
		s = stringify(value)
	}
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// NormalizeBoolean maps loosely-typed model output to a boolean. Native
// booleans pass through; the strings yes/true/1 and no/false/0 (any case,
// trimmed) map to true and false. Everything else, including nil, numbers,
// and unrecognized strings, returns nil: the predicted value could not be
// determined.
func NormalizeBoolean(value any) *bool {
	switch v := value.(type) {
	case nil:
		return nil
	case bool:
		return &v
	case string:
		switch strings.TrimSpace(strings.ToLower(v)) {
		case "yes", "true", "1":
			t := true
			return &t
		case "no", "false", "0":
			f := false
			return &f
		}
	}
	return nil
}

// NormalizeMonetary maps loosely-typed model output to a dollar amount.
// Numeric types pass through; strings have "$" and "," stripped before
// parsing. The strings null/none/n/a and the empty string, and anything
// unparsable, return nil.
func NormalizeMonetary(value any) *float64 {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		return &v
	case float32:
		f := float64(v)
		return &f
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(v, "$", ""), ",", ""))
		switch strings.ToLower(cleaned) {
		case "null", "none", "n/a", "":
			return nil
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		return &f
	}
	return nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
