// internal/websocket/handlers/activity_handler.go
package handlers

import (
	"context"
	"fmt"

	wstypes "stockpilot-service/internal/domain/websocket"
	ws "stockpilot-service/internal/websocket"
)

// ActivityRecorder is the touch point the socket feeds user gestures
// into; the auth service implements it.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, userID int64, jti string) error
}

// ActivityHandler forwards in-band activity pings so an open socket
// keeps the inactivity countdown honest without HTTP round trips.
type ActivityHandler struct {
	recorder ActivityRecorder
}

func NewActivityHandler(recorder ActivityRecorder) *ActivityHandler {
	return &ActivityHandler{recorder: recorder}
}

// SupportedEvents returns events this handler supports
func (h *ActivityHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{
		wstypes.EventTypeActivity,
	}
}

// HandleMessage processes activity messages
func (h *ActivityHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	switch msg.Type {
	case wstypes.EventTypeActivity:
		if err := h.recorder.RecordActivity(ctx, client.GetUserID(), client.GetJTI()); err != nil {
			client.SendError("activity_failed", "Failed to record activity", err.Error())
			return err
		}

		client.SendMessage(wstypes.NewMessage(wstypes.EventTypeActivity, map[string]interface{}{
			"success": true,
		}))
		return nil

	default:
		return fmt.Errorf("unsupported event type: %s", msg.Type)
	}
}
