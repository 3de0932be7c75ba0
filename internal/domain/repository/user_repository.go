// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"campusconnect/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user persistence.
// The application layer depends on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their lowercased email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByIDs retrieves the users for the given IDs, in no particular order.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.User, error)

	// Search returns up to limit users whose name or email contains the query,
	// ordered by name.
	Search(ctx context.Context, query string, limit int) ([]*entity.User, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// UpdateProfile modifies only the allow-listed profile fields.
	UpdateProfile(ctx context.Context, id uuid.UUID, fields map[string]any) error

	// SetRefreshTokenHash atomically replaces the user's stored refresh token
	// hash. A nil hash clears the active session.
	SetRefreshTokenHash(ctx context.Context, id uuid.UUID, hash *string) error

	// Delete removes the user record.
	Delete(ctx context.Context, id uuid.UUID) error
}
