package response

import (
	"time"

	"github.com/user/chatsmith/internal/entity"
)

// ErrorResponse is the uniform error body. Kind is a stable machine-readable
// label; Error is a human-readable message.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// MetadataResponse mirrors entity.Metadata for API consumers.
type MetadataResponse struct {
	SourceURL    string    `json:"source_url"`
	DisplayName  string    `json:"display_name"`
	ExtractedAt  time.Time `json:"extracted_at"`
	PageCount    int       `json:"page_count"`
	HasSecondary bool      `json:"has_secondary"`
}

// AcquireResponse is the body of a successful POST /api/acquire.
type AcquireResponse struct {
	Status    string           `json:"status"`
	FromCache bool             `json:"from_cache"`
	CacheKey  string           `json:"cache_key"`
	Metadata  MetadataResponse `json:"metadata"`
}

// ContextResponse is the body of GET /api/context.
type ContextResponse struct {
	SourceURL string `json:"source_url"`
	Context   string `json:"context"`
	Chars     int    `json:"chars"`
}

func NewMetadataResponse(m entity.Metadata) MetadataResponse {
	return MetadataResponse{
		SourceURL:    m.SourceURL,
		DisplayName:  m.DisplayName,
		ExtractedAt:  m.ExtractedAt,
		PageCount:    m.PageCount,
		HasSecondary: m.HasSecondary,
	}
}
