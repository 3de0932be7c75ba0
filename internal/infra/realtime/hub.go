// Package realtime delivers chat events to connected websocket clients.
package realtime

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"campusconnect/internal/domain/service"

	"github.com/google/uuid"
)

// Event is the wire envelope pushed to subscribers.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// UserRoom returns the room carrying one user's personal events.
func UserRoom(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s", userID)
}

// ConversationRoom returns the room carrying one conversation's events.
func ConversationRoom(conversationID uuid.UUID) string {
	return fmt.Sprintf("conversation:%s", conversationID)
}

// Hub tracks room membership and fans events out to subscribed clients.
// It implements service.EventPublisher.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]struct{}
	logger *slog.Logger
}

// NewHub is the constructor for Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Client]struct{}),
		logger: logger,
	}
}

var _ service.EventPublisher = (*Hub)(nil)

// PublishToUser sends an event to every connection of one user.
func (h *Hub) PublishToUser(userID uuid.UUID, event string, payload any) {
	h.publish(UserRoom(userID), event, payload)
}

// PublishToConversation sends an event to every subscriber of a conversation room.
func (h *Hub) PublishToConversation(conversationID uuid.UUID, event string, payload any) {
	h.publish(ConversationRoom(conversationID), event, payload)
}

// publish marshals once and fans out. A client whose send buffer is full is
// dropped rather than allowed to stall the room.
func (h *Hub) publish(room, event string, payload any) {
	data, err := json.Marshal(Event{Event: event, Payload: payload})
	if err != nil {
		h.logger.Error("marshal realtime event failed",
			slog.String("room", room),
			slog.String("event", event),
			slog.Any("error", err))

		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for client := range h.rooms[room] {
		members = append(members, client)
	}
	h.mu.RUnlock()

	for _, client := range members {
		select {
		case client.send <- data:
		default:
			h.logger.Warn("slow realtime client dropped",
				slog.String("room", room),
				slog.String("user_id", client.userID.String()))
			h.Detach(client)
			client.Close()
		}
	}
}

// join subscribes the client to a room.
func (h *Hub) join(room string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][client] = struct{}{}
}

// leave unsubscribes the client from a room, dropping the room when empty.
func (h *Hub) leave(room string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Detach removes the client from every room it joined.
func (h *Hub) Detach(client *Client) {
	client.mu.Lock()
	rooms := make([]string, 0, len(client.rooms))
	for room := range client.rooms {
		rooms = append(rooms, room)
	}
	client.rooms = make(map[string]struct{})
	client.mu.Unlock()

	for _, room := range rooms {
		h.leave(room, client)
	}
}

// RoomSize reports the current number of subscribers of a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[room])
}
