package entity

import (
	"strings"
	"time"
)

// RobotsPolicy holds the parsed robots.txt rules for one domain.
// Shared read-only by all fetch tasks for that domain after first resolution.
type RobotsPolicy struct {
	Domain             string        `json:"domain"`
	DisallowedPrefixes []string      `json:"disallowed_prefixes"`
	CrawlDelay         time.Duration `json:"crawl_delay"` // 0 when the directive is absent
	FetchedAt          time.Time     `json:"fetched_at"`
	TTL                time.Duration `json:"ttl"`
}

// IsAllowed reports whether the given URL path may be fetched under this policy.
func (p *RobotsPolicy) IsAllowed(path string) bool {
	if len(p.DisallowedPrefixes) == 0 {
		return true
	}
	lowered := strings.ToLower(path)
	if lowered == "" {
		lowered = "/"
	}
	for _, prefix := range p.DisallowedPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return false
		}
	}
	return true
}

// Expired reports whether the policy's TTL has elapsed at the given time.
func (p *RobotsPolicy) Expired(now time.Time) bool {
	return now.Sub(p.FetchedAt) >= p.TTL
}
