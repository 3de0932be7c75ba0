package usecase

import (
	"context"
	"time"

	"campusconnect/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateConversationInput names the other participants of a new conversation.
// A single participant without a name is a direct chat and dedupes to an
// existing one.
type CreateConversationInput struct {
	ParticipantIDs []uuid.UUID
	Name           string
}

// SendMessageInput carries one outgoing message: text, a shared post, or both.
type SendMessageInput struct {
	Text   string
	PostID *uuid.UUID
}

// MessageView is a message rendered for the chat screen.
type MessageView struct {
	ID             uuid.UUID           `json:"id"`
	ConversationID uuid.UUID           `json:"conversation_id"`
	Sender         *entity.UserSummary `json:"sender"`
	Text           string              `json:"text,omitempty"`
	Post           *PostView           `json:"post,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// ConversationView is a conversation rendered for a specific participant.
type ConversationView struct {
	ID            uuid.UUID             `json:"id"`
	Name          string                `json:"name"`
	IsGroup       bool                  `json:"is_group"`
	Participants  []*entity.UserSummary `json:"participants"`
	LastMessage   *MessageView          `json:"last_message,omitempty"`
	LastMessageAt time.Time             `json:"last_message_at"`
}

// ChatUsecase defines the interface for conversations and messages.
type ChatUsecase interface {
	// ListConversations returns the caller's conversations, most recently
	// active first.
	ListConversations(ctx context.Context, userID uuid.UUID) ([]*ConversationView, error)

	// CreateConversation starts a conversation with at least one other
	// participant, reusing an existing direct chat when possible.
	CreateConversation(ctx context.Context, userID uuid.UUID, input CreateConversationInput) (*ConversationView, error)

	// ListMessages returns a conversation's messages in chronological order.
	// The caller must be a participant.
	ListMessages(ctx context.Context, userID, conversationID uuid.UUID, limit int) ([]*MessageView, error)

	// SendMessage appends a message and notifies the conversation's rooms.
	SendMessage(ctx context.Context, userID, conversationID uuid.UUID, input SendMessageInput) (*MessageView, error)

	// IsParticipant reports whether the user belongs to the conversation.
	// Used to gate realtime room subscriptions.
	IsParticipant(ctx context.Context, userID, conversationID uuid.UUID) bool
}
