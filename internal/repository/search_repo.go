package repository

import (
	"context"

	"github.com/user/chatsmith/internal/entity"
)

// SearchRepository defines the contract with the external search collaborator.
type SearchRepository interface {
	// Search runs a single query and returns zero or more results.
	Search(ctx context.Context, query string) ([]entity.SearchResult, error)
}
