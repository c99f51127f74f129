package common

import "strings"

// IsBlank reports whether s is empty or only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Contains reports whether values contains v.
func Contains[T comparable](values []T, v T) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

// Unique returns values without duplicates, keeping first occurrences.
func Unique[T comparable](values []T) []T {
	seen := make(map[T]struct{}, len(values))
	out := make([]T, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// LocalizedValue returns the value in lang, falling back to fallback.
func LocalizedValue(values map[string]string, lang, fallback string) string {
	if v, ok := values[lang]; ok && v != "" {
		return v
	}
	return values[fallback]
}
