package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "ab", Truncate("abcd", 2))
	assert.Equal(t, "", Truncate("abc", 0))
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	s := strings.Repeat("ü", 10) // 2 bytes per rune

	for limit := 1; limit <= len(s); limit++ {
		cut := Truncate(s, limit)
		assert.LessOrEqual(t, len(cut), limit)
		assert.True(t, utf8.ValidString(cut), "limit %d produced invalid UTF-8", limit)
	}
}
