package crawler

import (
	"context"
	"sync"
	"time"

	"github.com/user/chatsmith/internal/entity"
	"github.com/user/chatsmith/internal/repository"
)

// MemoryPolicyCache is the default, process-wide robots policy cache.
// Initialized empty at process start; entries are evicted lazily on expiry.
type MemoryPolicyCache struct {
	mu       sync.Mutex
	policies map[string]*entity.RobotsPolicy
}

var _ repository.PolicyCache = (*MemoryPolicyCache)(nil)

func NewMemoryPolicyCache() *MemoryPolicyCache {
	return &MemoryPolicyCache{policies: make(map[string]*entity.RobotsPolicy)}
}

func (c *MemoryPolicyCache) Get(ctx context.Context, domain string) (*entity.RobotsPolicy, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	policy, ok := c.policies[domain]
	if !ok {
		return nil, false, nil
	}
	if policy.Expired(time.Now()) {
		delete(c.policies, domain)
		return nil, false, nil
	}
	return policy, true, nil
}

func (c *MemoryPolicyCache) Set(ctx context.Context, policy *entity.RobotsPolicy, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policies[policy.Domain] = policy
	return nil
}
