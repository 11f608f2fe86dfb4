package tools

import (
	"encoding/json"
	"math"
	"strings"
)

// Args are the decoded arguments of a tool call. Values are whatever the JSON
// decoder (or an in-process caller) produced.
type Args map[string]any

// Has reports whether key is present with a non-null value.
func (a Args) Has(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

// String returns the trimmed string at key, or def when absent.
func (a Args) String(key, def string) string {
	if s, ok := a[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return def
}

// Int returns the integer at key, or def when absent.
func (a Args) Int(key string, def int) int {
	if f, ok := toFloat(a[key]); ok {
		return int(f)
	}
	return def
}

// Float returns the number at key, or def when absent.
func (a Args) Float(key string, def float64) float64 {
	if f, ok := toFloat(a[key]); ok {
		return f
	}
	return def
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func isIntegral(v any) bool {
	f, ok := toFloat(v)
	return ok && !math.IsInf(f, 0) && f == math.Trunc(f)
}
