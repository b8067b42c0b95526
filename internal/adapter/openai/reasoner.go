package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/user/chatsmith/internal/entity"
	"github.com/user/chatsmith/internal/repository"
	"github.com/user/chatsmith/pkg/utils"
)

// maxAnalysisChars bounds the content sample sent for gap analysis.
const maxAnalysisChars = 6000

const gapAnalysisSystemPrompt = `You are a quality auditor for website knowledge extraction.
You are given text extracted from a website. Judge whether it is complete
enough to answer typical visitor questions about the organization or person:
who they are, what they offer, how to contact them, pricing or availability.

Respond with a JSON object of exactly this shape:
{
  "confidence_score": <integer 1-10, 10 means fully complete>,
  "has_gaps": <boolean>,
  "gaps_found": [<short labels for each missing topic>],
  "recommended_queries": [<web search queries that would fill the gaps>],
  "reasoning": "<one or two sentences>"
}`

const nameExtractionSystemPrompt = `You extract the name of the organization or person a website belongs to.
Given a sample of the site's text, respond with ONLY the name, nothing else.
Prefer the official name over taglines. If no name is evident, respond with
an empty string.`

// Reasoner implements repository.ReasonerRepository on the OpenAI chat
// completion API. Every call carries its own deadline so a stalled
// collaborator cannot hold an acquisition open.
type Reasoner struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

var _ repository.ReasonerRepository = (*Reasoner)(nil)

func NewReasoner(apiKey, model string, timeout time.Duration) *Reasoner {
	return &Reasoner{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
	}
}

// AnalyzeGaps asks the model to audit the extracted content. Any response
// that cannot be decoded into a verdict is reported as ErrReasonerMalformed;
// the caller decides how to degrade.
func (r *Reasoner) AnalyzeGaps(ctx context.Context, siteURL, content string) (*entity.GapVerdict, error) {
	content = utils.Truncate(content, maxAnalysisChars)
	userPrompt := fmt.Sprintf("Website: %s\n\nExtracted content:\n%s", siteURL, content)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: gapAnalysisSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gap analysis request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", repository.ErrReasonerMalformed)
	}

	var verdict entity.GapVerdict
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &verdict); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrReasonerMalformed, err)
	}
	if verdict.ConfidenceScore == 0 {
		return nil, fmt.Errorf("%w: missing confidence_score", repository.ErrReasonerMalformed)
	}
	return &verdict, nil
}

// ExtractName asks the model for the site's display name. An empty answer is
// returned as an error so the caller can fall back to a host-derived name.
func (r *Reasoner) ExtractName(ctx context.Context, sample, siteURL string) (string, error) {
	sample = utils.Truncate(sample, maxAnalysisChars)
	userPrompt := fmt.Sprintf("Website: %s\n\nSite text sample:\n%s", siteURL, sample)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: nameExtractionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("name extraction request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", repository.ErrReasonerMalformed)
	}

	name := strings.Trim(strings.TrimSpace(resp.Choices[0].Message.Content), `"'`)
	if name == "" {
		return "", fmt.Errorf("%w: empty name", repository.ErrReasonerMalformed)
	}
	return name, nil
}
