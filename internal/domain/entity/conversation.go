package entity

import (
	"time"

	"github.com/google/uuid"
)

// Conversation groups two or more participants. A two-party conversation
// without a name is a direct chat and is deduplicated on creation.
type Conversation struct {
	ID            uuid.UUID
	Name          string
	IsGroup       bool
	Participants  []*User
	LastMessage   *Message
	LastMessageAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Message is one chat message, optionally carrying a shared post.
type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Sender         *User
	Text           string
	PostID         *uuid.UUID
	Post           *Post
	CreatedAt      time.Time
}

// HasParticipant reports whether the user belongs to the conversation.
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	for _, p := range c.Participants {
		if p != nil && p.ID == userID {
			return true
		}
	}

	return false
}

// DisplayName resolves the name shown to a given participant: the group name
// for group chats, the other side's name for direct chats.
func (c *Conversation) DisplayName(currentUserID uuid.UUID) string {
	if c.IsGroup {
		if c.Name != "" {
			return c.Name
		}

		return "Group chat"
	}

	for _, p := range c.Participants {
		if p != nil && p.ID != currentUserID {
			return p.Name
		}
	}

	return "Conversation"
}
