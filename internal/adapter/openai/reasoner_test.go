package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/chatsmith/internal/repository"
)

// completionServer serves a canned chat completion whose message content is
// the given string, after an optional delay.
func completionServer(t *testing.T, content string, delay time.Duration) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}))
}

func testClient(srvURL string) *openai.Client {
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srvURL + "/v1"
	return openai.NewClientWithConfig(cfg)
}

func TestAnalyzeGapsParsesVerdict(t *testing.T) {
	srv := completionServer(t, `{"confidence_score":4,"has_gaps":true,"gaps_found":["pricing"],"recommended_queries":["pricing plans"],"reasoning":"thin"}`, 0)
	defer srv.Close()

	r := &Reasoner{client: testClient(srv.URL), model: "test-model", timeout: 2 * time.Second}
	verdict, err := r.AnalyzeGaps(context.Background(), "https://example.com", "some content")
	require.NoError(t, err)

	assert.Equal(t, 4, verdict.ConfidenceScore)
	assert.True(t, verdict.HasGaps)
	assert.Equal(t, []string{"pricing plans"}, verdict.RecommendedQueries)
}

func TestAnalyzeGapsMalformedContent(t *testing.T) {
	srv := completionServer(t, "sorry, I cannot do that", 0)
	defer srv.Close()

	r := &Reasoner{client: testClient(srv.URL), model: "test-model", timeout: 2 * time.Second}
	_, err := r.AnalyzeGaps(context.Background(), "https://example.com", "content")

	assert.ErrorIs(t, err, repository.ErrReasonerMalformed)
}

func TestAnalyzeGapsMissingScore(t *testing.T) {
	srv := completionServer(t, `{"has_gaps":true}`, 0)
	defer srv.Close()

	r := &Reasoner{client: testClient(srv.URL), model: "test-model", timeout: 2 * time.Second}
	_, err := r.AnalyzeGaps(context.Background(), "https://example.com", "content")

	assert.ErrorIs(t, err, repository.ErrReasonerMalformed)
}

func TestAnalyzeGapsTimesOut(t *testing.T) {
	srv := completionServer(t, `{"confidence_score":9}`, 2*time.Second)
	defer srv.Close()

	r := &Reasoner{client: testClient(srv.URL), model: "test-model", timeout: 50 * time.Millisecond}
	start := time.Now()
	_, err := r.AnalyzeGaps(context.Background(), "https://example.com", "content")

	assert.Error(t, err)
	// The call is bounded by the adapter's own deadline, not the server.
	assert.Less(t, time.Since(start), time.Second)
}

func TestExtractNameTrimsQuotes(t *testing.T) {
	srv := completionServer(t, `"Acme Anvils"`, 0)
	defer srv.Close()

	r := &Reasoner{client: testClient(srv.URL), model: "test-model", timeout: 2 * time.Second}
	name, err := r.ExtractName(context.Background(), "sample", "https://example.com")
	require.NoError(t, err)

	assert.Equal(t, "Acme Anvils", name)
}

func TestExtractNameEmpty(t *testing.T) {
	srv := completionServer(t, "", 0)
	defer srv.Close()

	r := &Reasoner{client: testClient(srv.URL), model: "test-model", timeout: 2 * time.Second}
	_, err := r.ExtractName(context.Background(), "sample", "https://example.com")

	assert.ErrorIs(t, err, repository.ErrReasonerMalformed)
}
