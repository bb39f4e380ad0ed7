package content

import (
	"math"
	"strconv"
	"strings"
)

// Attrs holds the type-specific display properties of a node.
// Values come straight from JSON, so numbers arrive as float64.
type Attrs map[string]any

// Has reports whether key is set to a non-nil value.
func (a Attrs) Has(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

// String returns the attribute as a string. Numbers and booleans are
// formatted; anything else yields "".
func (a Attrs) String(key string) string {
	switch v := a[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// Int returns the attribute as an int, or def when it is missing or not
// numeric. Numeric strings are accepted.
func (a Attrs) Int(key string, def int) int {
	switch v := a[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return def
		}
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// Float returns the attribute as a float64, or def.
func (a Attrs) Float(key string, def float64) float64 {
	switch v := a[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return def
}

// Bool returns the attribute as a bool, or def.
func (a Attrs) Bool(key string, def bool) bool {
	switch v := a[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
