// internal/pkg/session/unlock.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// UnlockStore keeps the admin-unlock marker. The marker is deliberately
// separate from the session record: it lives only in Redis with a short
// TTL and is never written to the durable store, so elevation cannot
// survive a fresh session however the session itself is restored.
type UnlockStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewUnlockStore(client *redis.Client, ttl time.Duration) *UnlockStore {
	return &UnlockStore{client: client, ttl: ttl}
}

// Unlock sets the marker for a user with a fresh TTL.
func (u *UnlockStore) Unlock(ctx context.Context, userID int64) error {
	return u.client.Set(ctx, u.key(userID), "1", u.ttl).Err()
}

// IsUnlocked reports whether the marker is present.
func (u *UnlockStore) IsUnlocked(ctx context.Context, userID int64) (bool, error) {
	n, err := u.client.Exists(ctx, u.key(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check unlock marker: %w", err)
	}
	return n > 0, nil
}

// Refresh restarts the marker TTL if, and only if, the marker still
// exists. A refresh on an expired marker must not resurrect it.
func (u *UnlockStore) Refresh(ctx context.Context, userID int64) (bool, error) {
	ok, err := u.client.Expire(ctx, u.key(userID), u.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to refresh unlock marker: %w", err)
	}
	return ok, nil
}

// Lock clears the marker (explicit lock, inactivity expiry, logout).
func (u *UnlockStore) Lock(ctx context.Context, userID int64) error {
	return u.client.Del(ctx, u.key(userID)).Err()
}

func (u *UnlockStore) key(userID int64) string {
	return fmt.Sprintf("adminunlock:%d", userID)
}
