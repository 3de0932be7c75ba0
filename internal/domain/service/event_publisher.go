package service

import "github.com/google/uuid"

// Realtime event names delivered over the chat channel.
const (
	EventMessageNew         = "message:new"
	EventConversationUpdate = "conversation:update"
)

// EventPublisher delivers realtime events to connected clients. Rooms follow
// the `user:<id>` / `conversation:<id>` convention; publishing to a room with
// no subscribers is a no-op.
type EventPublisher interface {
	// PublishToUser sends an event to every connection of one user.
	PublishToUser(userID uuid.UUID, event string, payload any)

	// PublishToConversation sends an event to every subscriber of a
	// conversation room.
	PublishToConversation(conversationID uuid.UUID, event string, payload any)
}
