package model

import (
	"time"

	"github.com/google/uuid"
)

// ConversationModel mirrors the 'conversations' table.
type ConversationModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name    string    `gorm:"type:varchar(100)"`
	IsGroup bool      `gorm:"not null;default:false"`

	Participants  []ConversationParticipantModel `gorm:"foreignKey:ConversationID"`
	LastMessageID *uuid.UUID                     `gorm:"type:uuid"`
	LastMessage   *MessageModel                  `gorm:"foreignKey:LastMessageID"`
	LastMessageAt time.Time                      `gorm:"index:idx_conversations_last_message_at,sort:desc"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ConversationModel) TableName() string {
	return "conversations"
}

// ConversationParticipantModel mirrors the 'conversation_participants' join table.
type ConversationParticipantModel struct {
	ConversationID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey;index"`

	User *UserModel `gorm:"foreignKey:UserID"`

	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ConversationParticipantModel) TableName() string {
	return "conversation_participants"
}

// MessageModel mirrors the 'messages' table.
type MessageModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ConversationID uuid.UUID  `gorm:"type:uuid;not null;index"`
	SenderID       uuid.UUID  `gorm:"type:uuid;not null"`
	Text           string     `gorm:"type:text"`
	PostID         *uuid.UUID `gorm:"type:uuid"`

	Sender *UserModel `gorm:"foreignKey:SenderID"`
	Post   *PostModel `gorm:"foreignKey:PostID"`

	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (MessageModel) TableName() string {
	return "messages"
}
