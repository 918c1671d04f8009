// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents different real-time event types
type EventType string

const (
	// Connection events
	EventTypePing         EventType = "ping"
	EventTypePong         EventType = "pong"
	EventTypeConnected    EventType = "connected"
	EventTypeDisconnected EventType = "disconnected"
	EventTypeError        EventType = "error"

	// Activity events (client -> server)
	EventTypeActivity EventType = "activity"

	// Session events (server -> client)
	EventTypeSessionLocked  EventType = "session:locked"
	EventTypeSessionExpired EventType = "session:expired"
	EventTypeForceLogout    EventType = "session:force_logout"

	// Billing events
	EventTypeSubscriptionLocked   EventType = "subscription:locked"
	EventTypeSubscriptionUpgraded EventType = "subscription:upgraded"

	// Permission events
	EventTypePermissionGranted EventType = "permission:granted"
	EventTypePermissionRevoked EventType = "permission:revoked"

	// Marketplace review events
	EventTypeVendorReviewed EventType = "vendor:reviewed"

	// Subscription management events
	EventTypeSubscribe   EventType = "subscribe"
	EventTypeUnsubscribe EventType = "unsubscribe"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType              `json:"type"`
	Data      interface{}            `json:"data,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	ID        string                 `json:"id,omitempty"` // For message tracking/acknowledgment
}

// Subscription channels that clients can subscribe to
type ChannelType string

const (
	ChannelSession     ChannelType = "session"
	ChannelBilling     ChannelType = "billing"
	ChannelPermissions ChannelType = "permissions"
	ChannelReview      ChannelType = "review"
	ChannelSystem      ChannelType = "system"
)

// SubscribeRequest sent by client to subscribe to specific channels
type SubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// UnsubscribeRequest sent by client to unsubscribe from channels
type UnsubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// ErrorData for error events
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SessionEventData for session events
type SessionEventData struct {
	SessionID string `json:"session_id,omitempty"`
	Reason    string `json:"reason"`
	Message   string `json:"message"`
}

// BillingEventData for billing events
type BillingEventData struct {
	Plan    string `json:"plan"`
	Locked  bool   `json:"locked"`
	Message string `json:"message"`
}

// PermissionChangeData for permission events
type PermissionChangeData struct {
	EmployeeID     int64  `json:"employee_id"`
	ResourceKey    string `json:"resource_key"`
	PermissionCode string `json:"permission_code"`
	Granted        bool   `json:"granted"`
}

// ReviewEventData for marketplace review events
type ReviewEventData struct {
	VendorID int64  `json:"vendor_id"`
	Status   string `json:"status"`
	Notes    string `json:"notes,omitempty"`
}

// Helper to create messages
func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
		ID:        generateMessageID(),
	}
}

func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	err := json.Unmarshal(data, &msg)
	return &msg, err
}

func generateMessageID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
