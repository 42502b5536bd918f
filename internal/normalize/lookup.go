package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Lookup walks a dotted path ("price.value") through nested JSON objects.
// It reports false when any segment is missing, the parent is not an object,
// or the value found is JSON null.
func Lookup(data any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	current := data
	for _, part := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[part]
		if !ok {
			return nil, false
		}
	}

	if current == nil {
		return nil, false
	}
	return current, true
}

// StringOr returns the value at path rendered as a string, or def.
func StringOr(data any, path, def string) string {
	value, ok := Lookup(data, path)
	if !ok {
		return def
	}

	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		// objects and arrays where a scalar was expected
		encoded, err := json.Marshal(v)
		if err != nil {
			return def
		}
		return string(encoded)
	}
}
