package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// RawRecord is a heterogeneous backend row. The hospital master-data API returns
// the same entity with different key names depending on the upstream view, so
// every field is read through a priority list of candidate keys.
type RawRecord map[string]any

// FirstString probes keys in priority order and returns the first non-empty value
// rendered as a string. Numeric-looking codes stay opaque strings.
func FirstString(rec RawRecord, keys ...string) string {
	for _, key := range keys {
		value, ok := rec[key]
		if !ok || value == nil {
			continue
		}
		if s := Stringify(value); s != "" {
			return s
		}
	}
	return ""
}

// FirstBool probes keys in priority order and returns the first value that reads
// as a boolean, together with whether any key matched.
func FirstBool(rec RawRecord, keys ...string) (bool, bool) {
	for _, key := range keys {
		value, ok := rec[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case bool:
			return v, true
		case string:
			if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return parsed, true
			}
		case float64:
			return v != 0, true
		}
	}
	return false, false
}

// Stringify renders a backend scalar as a string. JSON numbers arrive as float64;
// integral codes must not pick up a trailing ".0".
func Stringify(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}
