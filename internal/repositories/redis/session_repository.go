// Package redis keeps revoked session token IDs in Redis so logouts hold
// across API instances.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/wijk-raffle/kupon-backend/internal/repositories"
	"github.com/wijk-raffle/kupon-backend/pkg/cache"
)

const keyPrefix = "kupon:revoked:"

var _ repositories.SessionRepository = (*SessionRepository)(nil)

// SessionRepository implements the repositories.SessionRepository interface
type SessionRepository struct {
	cache *cache.RedisCache
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(c *cache.RedisCache) *SessionRepository {
	return &SessionRepository{cache: c}
}

// Revoke stores the token ID until ttl passes
func (r *SessionRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.cache.SetString(ctx, keyPrefix+tokenID, "1", ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token ID is still on the revocation list
func (r *SessionRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	ok, err := r.cache.Exists(ctx, keyPrefix+tokenID)
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return ok, nil
}
