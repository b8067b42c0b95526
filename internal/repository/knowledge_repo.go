package repository

import (
	"context"

	"github.com/user/chatsmith/internal/entity"
)

// KnowledgeRepository defines the interface for the persisted knowledge cache.
type KnowledgeRepository interface {
	// Lookup retrieves the record stored under a cache key.
	// Returns ErrRecordNotFound when no record exists.
	Lookup(ctx context.Context, cacheKey string) (*entity.KnowledgeRecord, error)
	// Store persists a record under a cache key, atomically replacing any
	// prior record. A reader must never observe a partially written record.
	Store(ctx context.Context, cacheKey string, record *entity.KnowledgeRecord) error
}
