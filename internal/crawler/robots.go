package crawler

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/user/chatsmith/internal/entity"
	"github.com/user/chatsmith/internal/repository"
)

// robotsAgentToken is the user-agent token matched against robots.txt groups,
// alongside the wildcard group.
const robotsAgentToken = "chatsmith"

// RobotsGate resolves and caches per-domain robots policies. An unreachable
// robots.txt fails open: the crawl proceeds with an allow-all policy and the
// condition is logged as degraded, not treated as an error.
type RobotsGate struct {
	fetcher *Fetcher
	cache   repository.PolicyCache
	ttl     time.Duration
}

// NewRobotsGate creates a gate. The fetcher should carry a short timeout and
// a small retry budget of its own, independent of page fetches.
func NewRobotsGate(fetcher *Fetcher, cache repository.PolicyCache, ttl time.Duration) *RobotsGate {
	return &RobotsGate{fetcher: fetcher, cache: cache, ttl: ttl}
}

// Resolve returns the robots policy for the domain of pageURL, fetching and
// caching it on first use and after TTL expiry. Never returns nil.
func (g *RobotsGate) Resolve(ctx context.Context, pageURL string) *entity.RobotsPolicy {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return &entity.RobotsPolicy{FetchedAt: time.Now(), TTL: g.ttl}
	}
	domain := strings.ToLower(u.Host)

	if cached, ok, cacheErr := g.cache.Get(ctx, domain); cacheErr != nil {
		slog.Warn("Robots policy cache read failed", "domain", domain, "error", cacheErr)
	} else if ok && !cached.Expired(time.Now()) {
		return cached
	}

	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"
	outcome := g.fetcher.Fetch(ctx, robotsURL)

	policy := &entity.RobotsPolicy{
		Domain:    domain,
		FetchedAt: time.Now(),
		TTL:       g.ttl,
	}
	if outcome.OK() {
		policy.DisallowedPrefixes, policy.CrawlDelay = parseRobots(string(outcome.Body))
		slog.Info("Resolved robots policy",
			"domain", domain,
			"disallowed_prefixes", len(policy.DisallowedPrefixes),
			"crawl_delay", policy.CrawlDelay,
		)
	} else {
		// Fail open: a missing or unreachable robots.txt must not block the crawl.
		slog.Warn("Could not resolve robots.txt, allowing all",
			"domain", domain, "reason", outcome.Reason, "status", outcome.StatusCode)
	}

	if err := g.cache.Set(ctx, policy, g.ttl); err != nil {
		slog.Warn("Robots policy cache write failed", "domain", domain, "error", err)
	}
	return policy
}

// IsAllowed reports whether a URL may be fetched under the given policy.
func (g *RobotsGate) IsAllowed(policy *entity.RobotsPolicy, pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil {
		return true
	}
	return policy.IsAllowed(u.Path)
}

// parseRobots extracts Disallow prefixes and an optional Crawl-delay from
// robots.txt groups addressed to the wildcard agent or to this service.
func parseRobots(text string) ([]string, time.Duration) {
	var prefixes []string
	var crawlDelay time.Duration

	currentAgent := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.ToLower(line))
		if i := strings.Index(line, "#"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		switch {
		case strings.HasPrefix(line, "user-agent:"):
			currentAgent = strings.TrimSpace(strings.TrimPrefix(line, "user-agent:"))
		case strings.HasPrefix(line, "disallow:"):
			if currentAgent != "*" && currentAgent != robotsAgentToken {
				continue
			}
			path := strings.TrimSpace(strings.TrimPrefix(line, "disallow:"))
			if path != "" {
				prefixes = append(prefixes, path)
			}
		case strings.HasPrefix(line, "crawl-delay:"):
			if currentAgent != "*" && currentAgent != robotsAgentToken {
				continue
			}
			value := strings.TrimSpace(strings.TrimPrefix(line, "crawl-delay:"))
			if seconds, err := time.ParseDuration(value + "s"); err == nil && seconds > 0 {
				crawlDelay = seconds
			}
		}
	}
	return prefixes, crawlDelay
}
