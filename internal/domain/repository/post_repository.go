package repository

import (
	"context"
	"errors"

	"campusconnect/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrPostNotFound is returned when a post does not exist.
var ErrPostNotFound = errors.New("post not found")

// PostRepository defines persistence operations for feed posts.
type PostRepository interface {
	// FindByID retrieves a post with its author, likes, comments and shares.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)

	// FindLatest returns the newest posts, fully loaded, newest first.
	FindLatest(ctx context.Context, limit int) ([]*entity.Post, error)

	// Create persists a new post.
	Create(ctx context.Context, post *entity.Post) error

	// AddLike records that the user likes the post; idempotent.
	AddLike(ctx context.Context, postID, userID uuid.UUID) error

	// RemoveLike removes the user's like from the post.
	RemoveLike(ctx context.Context, postID, userID uuid.UUID) error

	// AddComment appends a comment to the post and fills in generated fields.
	AddComment(ctx context.Context, comment *entity.Comment) error

	// AddShares records the post as shared with the given users; duplicates
	// are ignored.
	AddShares(ctx context.Context, postID uuid.UUID, userIDs []uuid.UUID) error
}
