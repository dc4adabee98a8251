package model

import (
	"fmt"
	"strconv"
	"strings"
)

// labelKeys are tried in order when a label arrives as a structured object.
var labelKeys = []string{"label", "name", "value", "type", "action", "position"}

// CoerceLabel narrows a loosely typed value to a label string. Strings pass
// through, numbers are formatted, objects are searched for a well-known
// label key. Anything else yields "".
func CoerceLabel(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case fmt.Stringer:
		return strings.TrimSpace(t.String())
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return ""
	case map[string]any:
		for _, k := range labelKeys {
			if s := CoerceLabel(t[k]); s != "" {
				return s
			}
		}
		return ""
	case []any:
		for _, e := range t {
			if s := CoerceLabel(e); s != "" {
				return s
			}
		}
		return ""
	default:
		return ""
	}
}

// CoerceFloat narrows a loosely typed coordinate. Unparseable values are 0.
func CoerceFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// CoerceBool narrows a loosely typed flag. Unparseable values are false.
func CoerceBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "t", "true", "yes", "y":
			return true
		}
		return false
	default:
		return false
	}
}
