package repository

import (
	"context"
	"time"

	"github.com/user/chatsmith/internal/entity"
)

// PolicyCache defines the interface for the per-domain robots policy cache.
type PolicyCache interface {
	// Get returns the cached, unexpired policy for a domain, if present.
	Get(ctx context.Context, domain string) (*entity.RobotsPolicy, bool, error)
	// Set stores a policy with an expiry.
	Set(ctx context.Context, policy *entity.RobotsPolicy, ttl time.Duration) error
}
