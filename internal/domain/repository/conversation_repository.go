package repository

import (
	"context"
	"errors"

	"campusconnect/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrConversationNotFound is returned when a conversation does not exist.
var ErrConversationNotFound = errors.New("conversation not found")

// ConversationRepository defines persistence operations for chat.
type ConversationRepository interface {
	// FindByID retrieves a conversation with its participants and last message.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Conversation, error)

	// FindForUser returns the conversations the user participates in,
	// most recently active first.
	FindForUser(ctx context.Context, userID uuid.UUID) ([]*entity.Conversation, error)

	// FindDirect returns an existing unnamed two-party conversation between
	// exactly the given participants, or ErrConversationNotFound.
	FindDirect(ctx context.Context, a, b uuid.UUID) (*entity.Conversation, error)

	// Create persists a new conversation with its participant set.
	Create(ctx context.Context, conv *entity.Conversation) error

	// CreateMessage appends a message and advances the conversation's
	// last-message marker.
	CreateMessage(ctx context.Context, msg *entity.Message) error

	// FindMessages returns up to limit messages of a conversation in
	// chronological order.
	FindMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]*entity.Message, error)
}
