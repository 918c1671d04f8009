// internal/pkg/session/notice.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NoticeGate de-duplicates one-shot user-facing warnings (subscription
// lock, inactivity expiry). Once fires true exactly once per event id
// within the retention window, however often the caller re-evaluates.
type NoticeGate struct {
	client    *redis.Client
	retention time.Duration
}

func NewNoticeGate(client *redis.Client, retention time.Duration) *NoticeGate {
	return &NoticeGate{client: client, retention: retention}
}

// Once returns true if the event has not been announced yet and claims it.
func (g *NoticeGate) Once(ctx context.Context, eventID string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(eventID), "1", g.retention).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim notice %s: %w", eventID, err)
	}
	return ok, nil
}

func (g *NoticeGate) key(eventID string) string {
	return fmt.Sprintf("notice:%s", eventID)
}
