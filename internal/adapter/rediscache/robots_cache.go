package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/chatsmith/internal/entity"
	"github.com/user/chatsmith/internal/repository"
)

const robotsKeyPrefix = "robots:"

// PolicyCacheImpl shares robots policies across instances via Redis, with the
// TTL enforced by key expiry.
type PolicyCacheImpl struct {
	client *redis.Client
}

var _ repository.PolicyCache = (*PolicyCacheImpl)(nil)

func NewPolicyCache(client *redis.Client) *PolicyCacheImpl {
	return &PolicyCacheImpl{client: client}
}

func (c *PolicyCacheImpl) Get(ctx context.Context, domain string) (*entity.RobotsPolicy, bool, error) {
	data, err := c.client.Get(ctx, robotsKeyPrefix+domain).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get robots policy for %s: %w", domain, err)
	}
	var policy entity.RobotsPolicy
	if err := json.Unmarshal(data, &policy); err != nil {
		return nil, false, fmt.Errorf("decode robots policy for %s: %w", domain, err)
	}
	return &policy, true, nil
}

func (c *PolicyCacheImpl) Set(ctx context.Context, policy *entity.RobotsPolicy, ttl time.Duration) error {
	data, err := json.Marshal(policy)
	if err != nil {
		return fmt.Errorf("encode robots policy for %s: %w", policy.Domain, err)
	}
	if err := c.client.Set(ctx, robotsKeyPrefix+policy.Domain, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set robots policy for %s: %w", policy.Domain, err)
	}
	return nil
}
