package repository

import (
	"context"
	"errors"

	"campusconnect/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrConnectionExists is returned when the edge already exists.
var ErrConnectionExists = errors.New("connection already exists")

// ConnectionRepository defines persistence operations for the connections graph.
type ConnectionRepository interface {
	// Create persists a new edge. The caller must pass the pair in canonical
	// order; a duplicate pair yields ErrConnectionExists.
	Create(ctx context.Context, conn *entity.Connection) error

	// Exists reports whether an edge between the two users exists, in either
	// direction.
	Exists(ctx context.Context, a, b uuid.UUID) (bool, error)

	// CountForUser returns the number of edges touching the user.
	CountForUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// PeerIDs returns the IDs of the users connected to the given user.
	PeerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	// DeleteForUser removes every edge touching the user.
	DeleteForUser(ctx context.Context, userID uuid.UUID) error
}
