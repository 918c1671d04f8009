// internal/websocket/hub.go
package websocket

import (
	"context"
	"log"
	"sync"

	wstypes "stockpilot-service/internal/domain/websocket"
	"stockpilot-service/internal/pkg/jwt"
	"stockpilot-service/internal/pkg/session"
)

type Hub struct {
	// Registered clients by tenant/user ID
	clients map[int64]map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	Register   chan *Client
	unregister chan *Client

	// Broadcasting
	broadcast chan *BroadcastMessage

	// Handler registry for modular message handling
	handlerRegistry *HandlerRegistry

	// Auth dependencies
	jwtVerifier    *jwt.Verifier
	sessionManager *session.Manager
}

type BroadcastMessage struct {
	UserIDs []int64
	Channel wstypes.ChannelType
	Message *wstypes.WSMessage
}

func NewHub(jwtVerifier *jwt.Verifier, sessionManager *session.Manager) *Hub {
	return &Hub{
		clients:         make(map[int64]map[*Client]bool),
		Register:        make(chan *Client),
		unregister:      make(chan *Client),
		broadcast:       make(chan *BroadcastMessage, 256),
		handlerRegistry: NewHandlerRegistry(),
		jwtVerifier:     jwtVerifier,
		sessionManager:  sessionManager,
	}
}

// AuthenticateClient validates the JWT token and confirms the session is
// still alive before a socket is accepted.
func (h *Hub) AuthenticateClient(ctx context.Context, token string) (*ClientAuth, error) {
	claims, err := h.jwtVerifier.Verify(token)
	if err != nil {
		return nil, err
	}

	sess, err := h.sessionManager.Get(ctx, claims.UserID, claims.ID)
	if err != nil {
		return nil, err
	}

	return &ClientAuth{
		UserID:      claims.UserID,
		EmployeeID:  claims.EmployeeID,
		JTI:         claims.ID,
		Username:    sess.Username,
		Role:        claims.Role,
		Permissions: claims.Permissions,
	}, nil
}

// RegisterHandler registers a message handler
func (h *Hub) RegisterHandler(handler MessageHandler) {
	h.handlerRegistry.Register(handler)
}

// HandleClientMessage processes a message from a client using registered handlers
func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error {
	handler, exists := h.handlerRegistry.GetHandler(msg.Type)
	if !exists {
		return nil // Will be handled by client's default handler
	}

	return handler.HandleMessage(ctx, client, msg)
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.BroadcastMessage(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.userID] == nil {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	log.Printf("Client connected: user=%d, jti=%s, total=%d",
		client.userID, client.jti, h.totalClients())

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"user_id":  client.userID,
		"username": client.username,
		"role":     client.role,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.userID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.userID)
			}

			log.Printf("Client disconnected: user=%d, jti=%s, total=%d",
				client.userID, client.jti, h.totalClients())
		}
	}
}

func (h *Hub) BroadcastMessage(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if msg.UserIDs == nil {
		for _, clients := range h.clients {
			for client := range clients {
				if client.IsSubscribed(msg.Channel) {
					client.SendMessage(msg.Message)
				}
			}
		}
	} else {
		for _, userID := range msg.UserIDs {
			if clients, ok := h.clients[userID]; ok {
				for client := range clients {
					if client.IsSubscribed(msg.Channel) {
						client.SendMessage(msg.Message)
					}
				}
			}
		}
	}
}

func (h *Hub) GetConnectedClients(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.clients[userID]; ok {
		return len(clients)
	}
	return 0
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

// Public methods for broadcasting

// NotifySessionLocked tells a tenant's open tabs the admin console
// relocked (inactivity or explicit lock).
func (h *Hub) NotifySessionLocked(userID int64, reason, message string) {
	msg := wstypes.NewMessage(wstypes.EventTypeSessionLocked, wstypes.SessionEventData{
		Reason:  reason,
		Message: message,
	})
	h.broadcast <- &BroadcastMessage{
		UserIDs: []int64{userID},
		Channel: wstypes.ChannelSession,
		Message: msg,
	}
}

// NotifySubscriptionLocked announces a usage-envelope lock.
func (h *Hub) NotifySubscriptionLocked(userID int64, plan, message string) {
	msg := wstypes.NewMessage(wstypes.EventTypeSubscriptionLocked, wstypes.BillingEventData{
		Plan:    plan,
		Locked:  true,
		Message: message,
	})
	h.broadcast <- &BroadcastMessage{
		UserIDs: []int64{userID},
		Channel: wstypes.ChannelBilling,
		Message: msg,
	}
}

// NotifySubscriptionUpgraded announces a verified upgrade.
func (h *Hub) NotifySubscriptionUpgraded(userID int64, plan string) {
	msg := wstypes.NewMessage(wstypes.EventTypeSubscriptionUpgraded, wstypes.BillingEventData{
		Plan:    plan,
		Locked:  false,
		Message: "Your Pro subscription is now active.",
	})
	h.broadcast <- &BroadcastMessage{
		UserIDs: []int64{userID},
		Channel: wstypes.ChannelBilling,
		Message: msg,
	}
}

// NotifyPermissionChange pushes a grant or revoke so open tabs can
// re-render their menus without a reload.
func (h *Hub) NotifyPermissionChange(userID int64, change *wstypes.PermissionChangeData) {
	eventType := wstypes.EventTypePermissionRevoked
	if change.Granted {
		eventType = wstypes.EventTypePermissionGranted
	}
	h.broadcast <- &BroadcastMessage{
		UserIDs: []int64{userID},
		Channel: wstypes.ChannelPermissions,
		Message: wstypes.NewMessage(eventType, change),
	}
}

// NotifyVendorReviewed announces a review decision to the applicant.
func (h *Hub) NotifyVendorReviewed(userID int64, event *wstypes.ReviewEventData) {
	h.broadcast <- &BroadcastMessage{
		UserIDs: []int64{userID},
		Channel: wstypes.ChannelReview,
		Message: wstypes.NewMessage(wstypes.EventTypeVendorReviewed, event),
	}
}

func (h *Hub) ForceLogout(userID int64, jti string, reason string) {
	msg := wstypes.NewMessage(wstypes.EventTypeForceLogout, wstypes.SessionEventData{
		SessionID: jti,
		Reason:    reason,
		Message:   "You have been logged out",
	})
	h.broadcast <- &BroadcastMessage{
		UserIDs: []int64{userID},
		Channel: wstypes.ChannelSession,
		Message: msg,
	}
}

// IsUserConnected checks if a user has any active connections
func (h *Hub) IsUserConnected(userID int64) bool {
	return h.GetConnectedClients(userID) > 0
}

// DisconnectUser forcefully disconnects all sessions for a user
func (h *Hub) DisconnectUser(userID int64, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[userID]; ok {
		disconnectMsg := wstypes.NewMessage(wstypes.EventTypeDisconnected, map[string]interface{}{
			"reason": reason,
		})

		for client := range clients {
			client.SendMessage(disconnectMsg)
			client.Close()
		}

		delete(h.clients, userID)
		log.Printf("Disconnected all clients for user=%d, reason=%s", userID, reason)
	}
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
	}
}
