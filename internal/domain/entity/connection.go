package entity

import (
	"bytes"
	"time"

	"github.com/google/uuid"
)

// Connection is an undirected edge between two users. The pair is stored
// ordered (UserID < ConnectedUserID bytewise) so that one unique index covers
// both directions.
type Connection struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	ConnectedUserID uuid.UUID
	CreatedAt       time.Time
}

// OrderedPair returns the two IDs in their canonical storage order.
func OrderedPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}

	return a, b
}
