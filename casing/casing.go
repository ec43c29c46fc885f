package casing

import (
	"io"
	"unicode"
)

// ToSnake returns a copy of v with every map key rewritten from camelCase
// to snake_case, recursing into nested maps and slices. Scalars and nil
// pass through unchanged. Opaque payloads (byte slices, readers) are
// never traversed.
func ToSnake(v any) any {
	return convert(v, SnakeKey)
}

// ToCamel returns a copy of v with every map key rewritten from
// snake_case to camelCase, recursing into nested maps and slices.
// Scalars and nil pass through unchanged. Opaque payloads are never
// traversed.
func ToCamel(v any) any {
	return convert(v, CamelKey)
}

// convert walks the value, rewriting map keys with the given key function.
// Only the JSON container types are traversed; everything else is opaque
// and returned as-is.
func convert(v any, key func(string) string) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[key(k)] = convert(elem, key)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = convert(elem, key)
		}
		return out
	case []byte:
		// Opaque binary payload (e.g. a multipart body) - never traversed.
		return val
	case io.Reader:
		return val
	default:
		return val
	}
}

// SnakeKey converts a single camelCase key to snake_case.
// Keys already in snake_case pass through unchanged, so redundant
// application is safe. Digits carry through as-is.
func SnakeKey(key string) string {
	out := make([]rune, 0, len(key)+4)
	runes := []rune(key)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			// Insert a boundary before an upper-case rune, except at the
			// start and inside an acronym run (HTTPCode -> http_code).
			if i > 0 && (!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				out = append(out, '_')
			}
			out = append(out, unicode.ToLower(r))
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// CamelKey converts a single snake_case key to camelCase.
// Keys without underscores pass through unchanged. Leading and trailing
// underscores are preserved so keys like "_private" survive a round trip.
// A run of interior underscores collapses into a single word boundary
// ("a__b" becomes "aB"), so such keys are ambiguous under conversion and
// do not round trip.
func CamelKey(key string) string {
	out := make([]rune, 0, len(key))
	upperNext := false
	for i, r := range key {
		if r == '_' {
			// Keep underscores that do not separate two word characters.
			if i == 0 || i == len(key)-1 {
				out = append(out, r)
				continue
			}
			upperNext = true
			continue
		}
		if upperNext {
			out = append(out, unicode.ToUpper(r))
			upperNext = false
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
