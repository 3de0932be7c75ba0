package usecase

import (
	"context"
	"time"

	"campusconnect/internal/domain/entity"

	"github.com/google/uuid"
)

// CreatePostInput carries a new post's content. Image is an optional data
// URL, capped at the delivery boundary.
type CreatePostInput struct {
	Content string
	Image   string
}

// CommentView is a comment rendered for the feed.
type CommentView struct {
	ID        uuid.UUID           `json:"id"`
	User      *entity.UserSummary `json:"user"`
	Text      string              `json:"text"`
	CreatedAt time.Time           `json:"created_at"`
}

// PostView is a post rendered for a specific viewer.
type PostView struct {
	ID          uuid.UUID           `json:"id"`
	Author      *entity.UserSummary `json:"author"`
	Content     string              `json:"content"`
	Image       string              `json:"image,omitempty"`
	LikesCount  int                 `json:"likes_count"`
	IsLiked     bool                `json:"is_liked"`
	Comments    []*CommentView      `json:"comments"`
	SharesCount int                 `json:"shares_count"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ToggleLikeOutput reports the post's like state after the toggle.
type ToggleLikeOutput struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// ShareOutput reports the post's share count after recording the share.
type ShareOutput struct {
	SharesCount int `json:"shares_count"`
}

// PostUsecase defines the interface for the post feed.
type PostUsecase interface {
	// Feed returns the latest posts rendered for the viewer.
	Feed(ctx context.Context, viewerID uuid.UUID) ([]*PostView, error)

	// Create publishes a new post.
	Create(ctx context.Context, authorID uuid.UUID, input CreatePostInput) (*PostView, error)

	// ToggleLike likes the post if the user hasn't, unlikes otherwise.
	ToggleLike(ctx context.Context, userID, postID uuid.UUID) (*ToggleLikeOutput, error)

	// AddComment appends a comment to the post.
	AddComment(ctx context.Context, userID, postID uuid.UUID, text string) (*CommentView, error)

	// Share records the post as shared, optionally with a specific user.
	// Re-sharing with the same user does not grow the share list.
	Share(ctx context.Context, userID, postID uuid.UUID, targetUserID *uuid.UUID) (*ShareOutput, error)
}
