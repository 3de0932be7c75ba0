package usecase

import (
	"context"

	"campusconnect/internal/domain/entity"

	"github.com/google/uuid"
)

// ConnectionUsecase defines the interface for the connections graph.
type ConnectionUsecase interface {
	// Connect creates an undirected edge between the caller and the target.
	Connect(ctx context.Context, userID, targetID uuid.UUID) error

	// Count returns the number of connections the user has.
	Count(ctx context.Context, userID uuid.UUID) (int64, error)

	// List returns the users on the other side of the caller's edges.
	List(ctx context.Context, userID uuid.UUID) ([]*entity.UserSummary, error)
}
