package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"

	"github.com/user/chatsmith/internal/entity"
	"github.com/user/chatsmith/internal/repository"
	"github.com/user/chatsmith/pkg/metrics"
	"github.com/user/chatsmith/pkg/utils"
)

// maxAnalysisChars bounds the content sample handed to the reasoner.
const maxAnalysisChars = 6000

// AcquisitionManager is the public contract of the acquisition pipeline.
type AcquisitionManager interface {
	// Acquire returns the knowledge record for a site, crawling and analyzing
	// it on a cache miss or when forceRefresh is set. The bool reports whether
	// the record was served from cache.
	Acquire(ctx context.Context, rawURL string, forceRefresh bool) (*entity.KnowledgeRecord, bool, error)
	// GetKnowledge returns the cached record without triggering acquisition.
	GetKnowledge(ctx context.Context, rawURL string) (*entity.KnowledgeRecord, error)
}

// SiteCrawler is the crawl stage as seen by the pipeline.
type SiteCrawler interface {
	Acquire(ctx context.Context, acquisitionID, rootURL string, maxPages int) ([]*entity.PageRecord, error)
}

type acquisitionUseCase struct {
	crawler   SiteCrawler
	knowledge repository.KnowledgeRepository
	reasoner  repository.ReasonerRepository
	search    repository.SearchRepository

	maxPages            int
	maxFallbackSearches int
	confidenceThreshold int

	locks *keyedLocks
}

func NewAcquisitionUseCase(
	crawler SiteCrawler,
	knowledge repository.KnowledgeRepository,
	reasoner repository.ReasonerRepository,
	search repository.SearchRepository,
	maxPages, maxFallbackSearches, confidenceThreshold int,
) AcquisitionManager {
	return &acquisitionUseCase{
		crawler:             crawler,
		knowledge:           knowledge,
		reasoner:            reasoner,
		search:              search,
		maxPages:            maxPages,
		maxFallbackSearches: maxFallbackSearches,
		confidenceThreshold: confidenceThreshold,
		locks:               newKeyedLocks(),
	}
}

// Acquire serializes work per cache key. A request that waited on a
// concurrent acquisition re-checks the cache after acquiring the lock, so a
// non-force request arriving during a refresh is served the fresh record
// instead of crawling again.
func (u *acquisitionUseCase) Acquire(ctx context.Context, rawURL string, forceRefresh bool) (*entity.KnowledgeRecord, bool, error) {
	normalized, err := utils.NormalizeURL(rawURL)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s", repository.ErrInvalidInput, rawURL)
	}
	cacheKey := utils.CacheKey(normalized)

	unlock := u.locks.lock(cacheKey)
	defer unlock()

	if forceRefresh {
		metrics.CacheLookupsTotal.WithLabelValues("bypass").Inc()
	} else {
		record, err := u.knowledge.Lookup(ctx, cacheKey)
		if err == nil {
			metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
			metrics.AcquisitionsTotal.WithLabelValues("success", "cache").Inc()
			return record, true, nil
		}
		if !errors.Is(err, repository.ErrRecordNotFound) {
			// A corrupt or unreadable record degrades to a miss.
			slog.Warn("Knowledge cache lookup failed", "cache_key", cacheKey, "error", err)
		}
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	}

	acquisitionID := uuid.NewString()
	slog.Info("Starting acquisition",
		"acquisition_id", acquisitionID, "url", normalized,
		"cache_key", cacheKey, "force_refresh", forceRefresh)

	pages, err := u.crawler.Acquire(ctx, acquisitionID, normalized, u.maxPages)
	if err != nil {
		metrics.AcquisitionsTotal.WithLabelValues("failure", "crawl").Inc()
		return nil, false, err
	}

	analysisText := buildAnalysisText(pages, maxAnalysisChars)

	verdict, err := u.reasoner.AnalyzeGaps(ctx, normalized, analysisText)
	if err != nil {
		// Fail toward supplementing: an unusable verdict means maximum uncertainty.
		slog.Warn("Gap analysis unusable, assuming maximum uncertainty",
			"acquisition_id", acquisitionID, "error", err)
		verdict = entity.MaxUncertaintyVerdict("gap analysis unavailable")
	}
	verdict.Normalize(u.confidenceThreshold)
	slog.Info("Gap analysis complete",
		"acquisition_id", acquisitionID,
		"confidence_score", verdict.ConfidenceScore,
		"has_gaps", verdict.HasGaps,
		"recommended_queries", len(verdict.RecommendedQueries))

	var results []entity.SearchResult
	if verdict.HasGaps {
		results = u.runFallbackSearches(ctx, acquisitionID, normalized, verdict.RecommendedQueries)
	}

	displayName := u.extractDisplayName(ctx, normalized, analysisText)

	pageValues := make([]entity.PageRecord, len(pages))
	for i, p := range pages {
		pageValues[i] = *p
	}
	record := entity.NewKnowledgeRecord(normalized, displayName, pageValues, results)

	if err := u.knowledge.Store(ctx, cacheKey, record); err != nil {
		metrics.AcquisitionsTotal.WithLabelValues("failure", "crawl").Inc()
		return nil, false, err
	}

	metrics.AcquisitionsTotal.WithLabelValues("success", "crawl").Inc()
	slog.Info("Acquisition complete",
		"acquisition_id", acquisitionID, "cache_key", cacheKey,
		"pages", record.Metadata.PageCount, "has_secondary", record.Metadata.HasSecondary)
	return record, false, nil
}

func (u *acquisitionUseCase) GetKnowledge(ctx context.Context, rawURL string) (*entity.KnowledgeRecord, error) {
	normalized, err := utils.NormalizeURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", repository.ErrInvalidInput, rawURL)
	}
	return u.knowledge.Lookup(ctx, utils.CacheKey(normalized))
}

// runFallbackSearches issues up to maxFallbackSearches queries, deduplicated
// case-insensitively and prefixed with the site URL for disambiguation. A
// failed query is skipped, never retried.
func (u *acquisitionUseCase) runFallbackSearches(ctx context.Context, acquisitionID, siteURL string, queries []string) []entity.SearchResult {
	var results []entity.SearchResult
	seen := make(map[string]bool, len(queries))
	issued := 0

	for _, query := range queries {
		if issued >= u.maxFallbackSearches {
			break
		}
		query = strings.TrimSpace(query)
		if query == "" || seen[strings.ToLower(query)] {
			continue
		}
		seen[strings.ToLower(query)] = true
		issued++
		metrics.FallbackSearchesTotal.Inc()

		hits, err := u.search.Search(ctx, siteURL+" "+query)
		if err != nil {
			slog.Warn("Fallback search failed",
				"acquisition_id", acquisitionID, "query", query, "error", err)
			continue
		}
		for _, hit := range hits {
			hit.Query = query
			results = append(results, hit)
		}
	}
	return results
}

func (u *acquisitionUseCase) extractDisplayName(ctx context.Context, siteURL, sample string) string {
	name, err := u.reasoner.ExtractName(ctx, sample, siteURL)
	if err != nil || name == "" {
		fallback := hostDisplayName(siteURL)
		slog.Warn("Display name extraction failed, using host-derived name",
			"url", siteURL, "fallback", fallback, "error", err)
		return fallback
	}
	return name
}

// hostDisplayName derives a readable name from the URL host: www stripped,
// first label capitalized.
func hostDisplayName(siteURL string) string {
	host := siteURL
	if u, err := url.Parse(siteURL); err == nil && u.Host != "" {
		host = u.Host
	}
	host = strings.TrimPrefix(host, "www.")
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return host
	}
	runes := []rune(label)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// buildAnalysisText concatenates page titles and cleaned text, homepage
// first, until the sample limit is reached.
func buildAnalysisText(pages []*entity.PageRecord, limit int) string {
	var b strings.Builder
	for _, p := range pages {
		if b.Len() >= limit {
			break
		}
		if p.Title != "" {
			b.WriteString(p.Title)
			b.WriteString("\n")
		}
		b.WriteString(p.CleanedText)
		b.WriteString("\n\n")
	}
	return utils.Truncate(b.String(), limit)
}

// keyedLocks serializes acquisitions per cache key. Entries are reference
// counted and removed when the last waiter releases, so the map does not grow
// with the set of sites ever seen.
type keyedLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{entries: make(map[string]*lockEntry)}
}

func (k *keyedLocks) lock(key string) (unlock func()) {
	k.mu.Lock()
	entry, ok := k.entries[key]
	if !ok {
		entry = &lockEntry{}
		k.entries[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
}
