package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/user/chatsmith/internal/entity"
	"github.com/user/chatsmith/pkg/metrics"
)

// UserAgent identifies every request this service makes.
const UserAgent = "ChatSMITH/1.0 (Website-to-Chatbot Generator; +https://github.com/chatsmith)"

const (
	baseRetryDelay = 1 * time.Second
	maxRetryAfter  = 30 * time.Second
	maxBodyBytes   = 2 << 20
)

// Fetcher fetches single URLs with bounded retries and exponential backoff.
type Fetcher struct {
	client      *http.Client
	maxAttempts int
}

// NewFetcher creates a fetcher with a per-request timeout and a retry ceiling.
func NewFetcher(timeout time.Duration, maxAttempts int) *Fetcher {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Fetcher{
		client:      &http.Client{Timeout: timeout},
		maxAttempts: maxAttempts,
	}
}

// Fetch retrieves a URL, retrying on connection failures, timeouts, HTTP 429
// and 5xx. Non-retryable HTTP statuses terminate immediately as fatal.
// Every call yields exactly one outcome.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) *entity.FetchOutcome {
	start := time.Now()
	outcome := &entity.FetchOutcome{URL: rawURL}

	var lastReason string
	var lastStatus int

attemptLoop:
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		outcome.Attempts = attempt
		if attempt > 1 {
			metrics.FetchRetriesTotal.Inc()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			outcome.Status = entity.FetchFatalFailure
			outcome.Reason = fmt.Sprintf("invalid request: %v", err)
			outcome.Elapsed = time.Since(start)
			return outcome
		}
		req.Header.Set("User-Agent", UserAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			lastReason = transportReason(err)
			lastStatus = 0
			if ctx.Err() != nil {
				break attemptLoop
			}
			if attempt < f.maxAttempts && !f.pause(ctx, backoffDelay(attempt)) {
				break attemptLoop
			}
			continue
		}

		status := resp.StatusCode
		switch {
		case status >= 200 && status < 300:
			body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			resp.Body.Close()
			if readErr != nil {
				lastReason = fmt.Sprintf("read body: %v", readErr)
				lastStatus = status
				if attempt < f.maxAttempts && !f.pause(ctx, backoffDelay(attempt)) {
					break attemptLoop
				}
				continue
			}
			outcome.Status = entity.FetchSuccess
			outcome.StatusCode = status
			outcome.Body = body
			outcome.Elapsed = time.Since(start)
			return outcome

		case status == http.StatusTooManyRequests:
			delay := backoffDelay(attempt)
			// A Retry-After header, when present, overrides the computed delay.
			if ra := retryAfterDelay(resp.Header); ra > 0 {
				delay = ra
			}
			drain(resp)
			lastReason = "rate_limited"
			lastStatus = status
			if attempt < f.maxAttempts && !f.pause(ctx, delay) {
				break attemptLoop
			}
			continue

		case status >= 500:
			drain(resp)
			lastReason = fmt.Sprintf("server_error_%d", status)
			lastStatus = status
			if attempt < f.maxAttempts && !f.pause(ctx, backoffDelay(attempt)) {
				break attemptLoop
			}
			continue

		default:
			drain(resp)
			outcome.Status = entity.FetchFatalFailure
			outcome.StatusCode = status
			outcome.Reason = fmt.Sprintf("http_%d", status)
			outcome.Elapsed = time.Since(start)
			return outcome
		}
	}

	outcome.Status = entity.FetchRetryableFailure
	outcome.StatusCode = lastStatus
	outcome.Reason = lastReason
	outcome.Elapsed = time.Since(start)
	return outcome
}

// pause sleeps for the given delay, returning false if the context was
// canceled first.
func (f *Fetcher) pause(ctx context.Context, delay time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(delay):
		return true
	}
}

func backoffDelay(attempt int) time.Duration {
	return baseRetryDelay << (attempt - 1)
}

// retryAfterDelay reads a seconds-form Retry-After header, capped so a
// hostile value cannot park the attempt indefinitely.
func retryAfterDelay(h http.Header) time.Duration {
	raw := h.Get("Retry-After")
	if raw == "" {
		return 0
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return 0
	}
	delay := time.Duration(seconds) * time.Second
	if delay > maxRetryAfter {
		delay = maxRetryAfter
	}
	return delay
}

func transportReason(err error) string {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "connection_failure"
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	resp.Body.Close()
}
