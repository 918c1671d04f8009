// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stockpilot-service/internal/domain/auth"
	xerrors "stockpilot-service/internal/pkg/errors"
)

// DurableStore is the Postgres session row behind the Redis record. Redis
// is the source of truth while a session lives; the row survives restarts.
type DurableStore interface {
	FindSessionByJTI(ctx context.Context, jti string) (*auth.Session, error)
	UpdateSessionActivity(ctx context.Context, sessionID int64) error
	InvalidateSession(ctx context.Context, sessionID int64) error
	InvalidateAllUserSessions(ctx context.Context, userID int64) error
}

type Manager struct {
	client  *redis.Client
	durable DurableStore
}

func NewManager(client *redis.Client, durable DurableStore) *Manager {
	return &Manager{client: client, durable: durable}
}

// Create stores a new session record. Version starts at 1.
func (m *Manager) Create(ctx context.Context, sess *Data) error {
	sess.Version = 1
	return m.write(ctx, sess)
}

// Get retrieves a session, falling back to the durable row when Redis
// has no record (restart, eviction). A session that exists nowhere is
// expired authentication, not an internal error.
func (m *Manager) Get(ctx context.Context, userID int64, jti string) (*Data, error) {
	key := m.sessionKey(userID, jti)

	raw, err := m.client.Get(ctx, key).Bytes()
	if err == nil {
		var sess Data
		if err := json.Unmarshal(raw, &sess); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session: %w", err)
		}
		return &sess, nil
	}
	if err != redis.Nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	if m.durable == nil {
		return nil, xerrors.ErrAuthExpired
	}

	row, dbErr := m.durable.FindSessionByJTI(ctx, jti)
	if dbErr != nil {
		return nil, xerrors.ErrAuthExpired
	}
	if row.UserID != userID || row.Status != "active" || time.Now().After(row.ExpiresAt) {
		return nil, xerrors.ErrAuthExpired
	}

	sess := &Data{
		JTI:            jti,
		SessionID:      row.ID,
		UserID:         row.UserID,
		Role:           row.Role,
		IPAddress:      row.IPAddress.String,
		UserAgent:      row.UserAgent.String,
		LoginAt:        row.LoginAt,
		LastActivityAt: row.LastActivityAt,
		ExpiresAt:      row.ExpiresAt,
		Version:        1,
	}

	// restore to Redis for the next read; permissions are rehydrated by
	// the auth service before the record is used for gating
	if err := m.write(ctx, sess); err != nil {
		return nil, err
	}

	return sess, nil
}

// Replace swaps the whole record for a new one. The caller passes the
// version it read; a mismatch means someone else replaced the record in
// between and the write is rejected rather than merged.
func (m *Manager) Replace(ctx context.Context, sess *Data) error {
	current, err := m.Get(ctx, sess.UserID, sess.JTI)
	if err != nil {
		return err
	}
	if current.Version != sess.Version {
		return xerrors.ErrStaleSession
	}

	sess.Version++
	return m.write(ctx, sess)
}

// TouchActivity stamps the last-activity time. Used by the activity ping;
// loss on a concurrent replace is acceptable, so stale writes just drop.
func (m *Manager) TouchActivity(ctx context.Context, userID int64, jti string) error {
	sess, err := m.Get(ctx, userID, jti)
	if err != nil {
		return err
	}

	sess.LastActivityAt = time.Now()
	if err := m.Replace(ctx, sess); err != nil {
		if xerrors.Is(err, xerrors.ErrStaleSession) {
			return nil
		}
		return err
	}

	if m.durable != nil && sess.SessionID > 0 {
		// best effort; Redis is the source of truth
		_ = m.durable.UpdateSessionActivity(ctx, sess.SessionID)
	}

	return nil
}

// Invalidate removes a session from Redis and marks the durable row.
func (m *Manager) Invalidate(ctx context.Context, userID int64, jti string) error {
	key := m.sessionKey(userID, jti)
	if err := m.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if m.durable != nil {
		row, err := m.durable.FindSessionByJTI(ctx, jti)
		if err == nil {
			if err := m.durable.InvalidateSession(ctx, row.ID); err != nil {
				return fmt.Errorf("failed to invalidate durable session: %w", err)
			}
		}
	}

	return nil
}

// InvalidateAll removes every session a user holds.
func (m *Manager) InvalidateAll(ctx context.Context, userID int64) error {
	pattern := fmt.Sprintf("session:%d:*", userID)

	iter := m.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := m.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete session %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if m.durable != nil {
		if err := m.durable.InvalidateAllUserSessions(ctx, userID); err != nil {
			return fmt.Errorf("failed to invalidate durable sessions: %w", err)
		}
	}

	return nil
}

func (m *Manager) write(ctx context.Context, sess *Data) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return xerrors.ErrAuthExpired
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	key := m.sessionKey(sess.UserID, sess.JTI)
	if err := m.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

func (m *Manager) sessionKey(userID int64, jti string) string {
	return fmt.Sprintf("session:%d:%s", userID, jti)
}
