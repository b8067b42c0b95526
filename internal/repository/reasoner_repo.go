package repository

import (
	"context"

	"github.com/user/chatsmith/internal/entity"
)

// ReasonerRepository defines the contract with the external reasoning collaborator.
type ReasonerRepository interface {
	// AnalyzeGaps assesses the completeness of extracted site content and
	// proposes fallback search queries. Returns ErrReasonerMalformed when the
	// collaborator's response does not match the verdict shape.
	AnalyzeGaps(ctx context.Context, siteURL, content string) (*entity.GapVerdict, error)
	// ExtractName extracts a concise display name for the site from a content sample.
	ExtractName(ctx context.Context, sample, siteURL string) (string, error)
}
