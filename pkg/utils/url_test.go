package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "bare host assumes https",
			input:    "example.com",
			expected: "https://example.com",
		},
		{
			name:     "lowercases scheme and host",
			input:    "HTTP://Example.COM/About",
			expected: "http://example.com/About",
		},
		{
			name:     "strips query and fragment",
			input:    "https://example.com/page?utm=1#section",
			expected: "https://example.com/page",
		},
		{
			name:     "trims trailing slash",
			input:    "https://example.com/about/",
			expected: "https://example.com/about",
		},
		{
			name:     "root path collapses to host",
			input:    "https://example.com/",
			expected: "https://example.com",
		},
		{
			name:    "empty input",
			input:   "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCacheKey(t *testing.T) {
	key := CacheKey("https://www.example.com/about")

	assert.Regexp(t, `^example_com_[0-9a-f]{12}$`, key)
	// Deterministic for the same normalized URL.
	assert.Equal(t, key, CacheKey("https://www.example.com/about"))
	// Different URLs on the same domain get different keys.
	assert.NotEqual(t, key, CacheKey("https://www.example.com/contact"))
}

func TestCacheKeyPortSanitized(t *testing.T) {
	key := CacheKey("http://localhost:8080")
	assert.Regexp(t, `^localhost_8080_[0-9a-f]{12}$`, key)
}

func TestHashURL(t *testing.T) {
	hash := HashURL("https://example.com")
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, HashURL("https://example.com"))
}

func TestToAbsoluteURL(t *testing.T) {
	base, err := url.Parse("https://example.com/blog/")
	require.NoError(t, err)

	abs, err := ToAbsoluteURL(base, "/about")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/about", abs)

	abs, err = ToAbsoluteURL(base, "post-1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/blog/post-1", abs)

	abs, err = ToAbsoluteURL(base, "https://other.com/x")
	require.NoError(t, err)
	assert.Equal(t, "https://other.com/x", abs)
}
