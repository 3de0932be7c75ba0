package model

import (
	"time"

	"github.com/google/uuid"
)

// ConnectionModel mirrors the 'connections' table. The pair is stored in
// canonical order so one unique index covers both directions of the edge.
type ConnectionModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_connections_pair"`
	ConnectedUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_connections_pair"`
	CreatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (ConnectionModel) TableName() string {
	return "connections"
}
