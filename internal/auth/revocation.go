package auth

import (
	"context"
	"time"
)

// RevocationStore tracks token ids invalidated before their natural expiry.
// Entries only need to live until the token itself would expire.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
