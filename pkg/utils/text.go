package utils

import "unicode/utf8"

// Truncate cuts s to at most limit bytes, backing off to the previous rune
// boundary so a multi-byte character is never split.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
