package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/user/chatsmith/internal/entity"
	"github.com/user/chatsmith/internal/repository"
	"github.com/user/chatsmith/pkg/metrics"
	"github.com/user/chatsmith/pkg/utils"
)

// minCleanedTextChars is the threshold below which a cleaned subpage is
// considered too thin to contribute knowledge. The homepage is exempt.
const minCleanedTextChars = 80

// Orchestrator runs the full homepage-anchored crawl for one site: robots
// resolution, homepage fetch, link discovery, then batched subpage fetches
// with a politeness delay between batches.
type Orchestrator struct {
	fetcher     *Fetcher
	robots      *RobotsGate
	audit       repository.AuditRepository
	batchSize   int
	politeDelay time.Duration
}

func NewOrchestrator(fetcher *Fetcher, robots *RobotsGate, audit repository.AuditRepository, batchSize int, politeDelay time.Duration) *Orchestrator {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Orchestrator{
		fetcher:     fetcher,
		robots:      robots,
		audit:       audit,
		batchSize:   batchSize,
		politeDelay: politeDelay,
	}
}

// Acquire crawls up to maxPages pages starting from rootURL. The homepage is
// always fetched first and always kept; a homepage failure aborts the whole
// acquisition. Subpage failures are recorded and skipped. Page order in the
// result follows discovery ranking regardless of fetch completion order.
func (o *Orchestrator) Acquire(ctx context.Context, acquisitionID, rootURL string, maxPages int) ([]*entity.PageRecord, error) {
	start := time.Now()

	normalized, err := utils.NormalizeURL(rootURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", repository.ErrInvalidInput, rootURL)
	}
	u, err := url.Parse(normalized)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %s", repository.ErrInvalidInput, rootURL)
	}
	domain := strings.ToLower(u.Host)

	policy := o.robots.Resolve(ctx, normalized)

	if !o.robots.IsAllowed(policy, normalized) {
		o.recordOutcome(ctx, acquisitionID, normalized, entity.PageOutcomeRobotsSkipped, "robots_disallowed", 0, 0)
		metrics.PagesFetchedTotal.WithLabelValues("robots_skipped").Inc()
		return nil, fmt.Errorf("%w: %s disallowed by robots.txt", repository.ErrHomepageUnreachable, normalized)
	}

	homepage := o.fetcher.Fetch(ctx, normalized)
	if !homepage.OK() {
		o.recordOutcome(ctx, acquisitionID, normalized, outcomeFor(homepage), homepage.Reason, homepage.StatusCode, homepage.Attempts)
		metrics.PagesFetchedTotal.WithLabelValues(string(outcomeFor(homepage))).Inc()
		return nil, fmt.Errorf("%w: %s after %d attempts (%s)",
			repository.ErrHomepageUnreachable, normalized, homepage.Attempts, homepage.Reason)
	}

	cleaned, err := CleanHTML(homepage.Body)
	if err != nil {
		o.recordOutcome(ctx, acquisitionID, normalized, entity.PageOutcomeFatal, "unparseable_html", homepage.StatusCode, homepage.Attempts)
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrHomepageUnreachable, normalized, err)
	}

	// The homepage anchors the record set and is kept even when thin.
	pages := []*entity.PageRecord{buildRecord(normalized, cleaned, entity.PageTypeHomepage)}
	o.recordOutcome(ctx, acquisitionID, normalized, entity.PageOutcomeFetched, "", homepage.StatusCode, homepage.Attempts)
	metrics.PagesFetchedTotal.WithLabelValues("success").Inc()

	links := DiscoverLinks(homepage.Body, normalized, maxPages-1)
	slog.Info("Discovered candidate links",
		"acquisition_id", acquisitionID, "domain", domain, "count", len(links))

	delay := o.politeDelay
	if policy.CrawlDelay > delay {
		delay = policy.CrawlDelay
	}

	for batchStart := 0; batchStart < len(links); batchStart += o.batchSize {
		if ctx.Err() != nil {
			slog.Warn("Crawl canceled at batch boundary",
				"acquisition_id", acquisitionID, "domain", domain, "pages_kept", len(pages))
			break
		}
		if batchStart > 0 && !o.politePause(ctx, delay) {
			break
		}

		batchEnd := batchStart + o.batchSize
		if batchEnd > len(links) {
			batchEnd = len(links)
		}
		batch := links[batchStart:batchEnd]

		outcomes := make([]*entity.FetchOutcome, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		for i, link := range batch {
			i, link := i, link
			if !o.robots.IsAllowed(policy, link) {
				o.recordOutcome(ctx, acquisitionID, link, entity.PageOutcomeRobotsSkipped, "robots_disallowed", 0, 0)
				metrics.PagesFetchedTotal.WithLabelValues("robots_skipped").Inc()
				continue
			}
			g.Go(func() error {
				outcomes[i] = o.fetcher.Fetch(gctx, link)
				return nil
			})
		}
		g.Wait()

		// Reassemble in index order so ranking survives concurrent completion.
		for i, outcome := range outcomes {
			if outcome == nil {
				continue
			}
			link := batch[i]
			if !outcome.OK() {
				o.recordOutcome(ctx, acquisitionID, link, outcomeFor(outcome), outcome.Reason, outcome.StatusCode, outcome.Attempts)
				metrics.PagesFetchedTotal.WithLabelValues(string(outcomeFor(outcome))).Inc()
				slog.Error("Subpage fetch failed",
					"acquisition_id", acquisitionID, "url", link,
					"reason", outcome.Reason, "attempts", outcome.Attempts)
				continue
			}
			cleaned, err := CleanHTML(outcome.Body)
			if err != nil {
				o.recordOutcome(ctx, acquisitionID, link, entity.PageOutcomeOmitted, "unparseable_html", outcome.StatusCode, outcome.Attempts)
				metrics.PagesFetchedTotal.WithLabelValues("omitted").Inc()
				continue
			}
			if len(cleaned.Text) < minCleanedTextChars {
				o.recordOutcome(ctx, acquisitionID, link, entity.PageOutcomeDiscardedThin, "insufficient_text", outcome.StatusCode, outcome.Attempts)
				metrics.PagesFetchedTotal.WithLabelValues("discarded").Inc()
				continue
			}
			pages = append(pages, buildRecord(link, cleaned, entity.PageTypeSubpage))
			o.recordOutcome(ctx, acquisitionID, link, entity.PageOutcomeFetched, "", outcome.StatusCode, outcome.Attempts)
			metrics.PagesFetchedTotal.WithLabelValues("success").Inc()
		}
	}

	metrics.CrawlDuration.WithLabelValues(domain).Observe(time.Since(start).Seconds())
	slog.Info("Crawl complete",
		"acquisition_id", acquisitionID, "domain", domain,
		"pages_kept", len(pages), "duration", time.Since(start))
	return pages, nil
}

func (o *Orchestrator) politePause(ctx context.Context, delay time.Duration) bool {
	if delay <= 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(delay):
		return true
	}
}

func (o *Orchestrator) recordOutcome(ctx context.Context, acquisitionID, pageURL string, outcome entity.PageOutcome, reason string, statusCode, attempts int) {
	audit := &entity.PageAudit{
		AcquisitionID:  acquisitionID,
		URL:            pageURL,
		Outcome:        outcome,
		Reason:         reason,
		HTTPStatusCode: statusCode,
		Attempts:       attempts,
		OccurredAt:     time.Now(),
	}
	if err := o.audit.RecordPageOutcome(ctx, audit); err != nil {
		slog.Warn("Failed to record page audit", "url", pageURL, "error", err)
	}
}

func outcomeFor(outcome *entity.FetchOutcome) entity.PageOutcome {
	if outcome.Status == entity.FetchFatalFailure {
		return entity.PageOutcomeFatal
	}
	return entity.PageOutcomeOmitted
}

func buildRecord(pageURL string, cleaned *CleanedPage, pageType entity.PageType) *entity.PageRecord {
	return &entity.PageRecord{
		URL:         pageURL,
		Title:       cleaned.Title,
		Description: cleaned.Description,
		CleanedText: cleaned.Text,
		Sections:    cleaned.Sections,
		PageType:    pageType,
		FetchedAt:   time.Now(),
	}
}
