package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/user/chatsmith/internal/entity"
	"github.com/user/chatsmith/internal/repository"
)

const searchSystemPrompt = `You answer a web search query about a specific website or organization
from your general knowledge. Respond with a JSON object of exactly this shape:
{
  "snippet": "<a factual answer of 2-4 sentences, or an empty string if you know nothing reliable>",
  "source_url": "<a URL supporting the answer, or an empty string>"
}
Never invent facts. An empty snippet is better than a guess.`

// Searcher implements repository.SearchRepository on the OpenAI chat
// completion API, using the model's knowledge as the search backend. Every
// call carries its own deadline.
type Searcher struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

var _ repository.SearchRepository = (*Searcher)(nil)

func NewSearcher(apiKey, model string, timeout time.Duration) *Searcher {
	return &Searcher{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
	}
}

// Search runs one query. An empty snippet yields zero results rather than a
// result with no content.
func (s *Searcher) Search(ctx context.Context, query string) ([]entity.SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: searchSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("search returned no completion")
	}

	var payload struct {
		Snippet   string `json:"snippet"`
		SourceURL string `json:"source_url"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if payload.Snippet == "" {
		return nil, nil
	}
	return []entity.SearchResult{{
		Query:     query,
		Snippet:   payload.Snippet,
		SourceURL: payload.SourceURL,
	}}, nil
}
