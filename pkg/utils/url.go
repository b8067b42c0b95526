package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL canonicalizes a URL for deduplication and cache keying:
// lowercase scheme and host, query and fragment stripped, trailing slash trimmed.
// A bare host without a scheme is assumed to be https.
func NormalizeURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", fmt.Errorf("empty URL")
	}
	lowered := strings.ToLower(trimmed)
	if !strings.HasPrefix(lowered, "http://") && !strings.HasPrefix(lowered, "https://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("URL has no host: %s", rawURL)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String(), nil
}

// CacheKey derives the knowledge cache key for a normalized URL: a short
// domain prefix for human readability plus the first 12 hex chars of the
// URL's SHA256 hash.
func CacheKey(normalizedURL string) string {
	domain := "unknown"
	if u, err := url.Parse(normalizedURL); err == nil && u.Host != "" {
		domain = strings.TrimPrefix(u.Host, "www.")
		domain = strings.ReplaceAll(domain, ".", "_")
		domain = strings.ReplaceAll(domain, ":", "_")
	}
	return fmt.Sprintf("%s_%s", domain, HashURL(normalizedURL)[:12])
}

// HashURL creates a SHA256 hash of a URL string.
func HashURL(rawURL string) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	return hex.EncodeToString(h.Sum(nil))
}

// ToAbsoluteURL converts a relative URL to an absolute URL given a base URL.
func ToAbsoluteURL(base *url.URL, relative string) (string, error) {
	relURL, err := url.Parse(relative)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(relURL).String(), nil
}
