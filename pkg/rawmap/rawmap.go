// Package rawmap provides first-match-wins accessors over untrusted,
// schemaless JSON objects decoded into map[string]any. Upstream
// catalog feeds rename fields freely, so every canonical field is
// resolved through an ordered list of aliases using these helpers.
package rawmap

import (
	"strconv"
	"strings"
)

// Record reports whether the value is a JSON object.
func Record(value any) (map[string]any, bool) {
	rec, ok := value.(map[string]any)
	return rec, ok
}

// List reports whether the value is a JSON array.
func List(value any) ([]any, bool) {
	list, ok := value.([]any)
	return list, ok
}

// String normalizes a value into a usable string. Blank strings and
// the literal "null"/"undefined" spellings some feeds emit are absent.
func String(value any) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", false
	}
	lowered := strings.ToLower(trimmed)
	if lowered == "null" || lowered == "undefined" {
		return "", false
	}
	return trimmed, true
}

// PickString returns the first alias whose value normalizes to a string.
func PickString(record map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if s, ok := String(record[key]); ok {
			return s, true
		}
	}
	return "", false
}

// Number coerces a JSON number or numeric string into a float64.
func Number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// PickNumber returns the first alias whose value coerces to a number.
func PickNumber(record map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		if n, ok := Number(record[key]); ok {
			return n, true
		}
	}
	return 0, false
}

// StringID coerces an identifier-like value into its string form.
// Numeric identifiers become their decimal representation.
func StringID(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return "", false
		}
		return trimmed, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	default:
		return "", false
	}
}

// PickStringID returns the first alias that resolves to an identifier.
func PickStringID(record map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if id, ok := StringID(record[key]); ok {
			return id, true
		}
	}
	return "", false
}

// Bool reports whether the value is an explicit JSON boolean.
func Bool(value any) (bool, bool) {
	b, ok := value.(bool)
	return b, ok
}
