package persistence

import (
	"context"
	"errors"
	"time"
)

const revokedKeyPrefix = "auth:revoked:"

// TokenRevocationStore keeps revoked token ids in Redis until the token
// would have expired anyway. Implements auth.RevocationStore.
type TokenRevocationStore struct {
	redis *Redis
}

// NewTokenRevocationStore builds the store.
func NewTokenRevocationStore(r *Redis) *TokenRevocationStore {
	return &TokenRevocationStore{redis: r}
}

// Revoke marks a token id as invalid for ttl. A non-positive ttl means
// the token already expired and there is nothing to record.
func (s *TokenRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if s.redis == nil || s.redis.Client == nil {
		return errors.New("revocation store not configured")
	}
	if ttl <= 0 {
		return nil
	}
	return s.redis.Client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked reports whether a token id has been revoked.
func (s *TokenRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.redis == nil || s.redis.Client == nil {
		return false, errors.New("revocation store not configured")
	}
	n, err := s.redis.Client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
