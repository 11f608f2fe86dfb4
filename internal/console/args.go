package console

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseArgs reads command arguments. A JSON object is used as is;
// otherwise key=value pairs are collected, digits becoming integers and
// other numbers floats. Values may be quoted to include spaces. Tokens
// without '=' are ignored.
func ParseArgs(s string) map[string]any {
	s = strings.TrimSpace(s)
	out := map[string]any{}
	if s == "" {
		return out
	}
	if err := json.Unmarshal([]byte(s), &out); err == nil && out != nil {
		return out
	}
	out = map[string]any{}

	for _, tok := range splitFields(s) {
		key, value, ok := strings.Cut(tok, "=")
		if !ok || key == "" {
			continue
		}
		out[key] = coerce(value)
	}
	return out
}

func coerce(v string) any {
	if v != "" && strings.Trim(v, "0123456789") == "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return strings.Trim(v, `"'`)
}

// splitFields splits on whitespace outside of single or double quotes.
// Quotes are kept; coerce strips them.
func splitFields(s string) []string {
	var (
		fields []string
		cur    strings.Builder
		quote  rune
	)
	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case quote != 0:
			cur.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
			cur.WriteRune(r)
		case r == ' ' || r == '\t':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return fields
}
