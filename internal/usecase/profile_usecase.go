package usecase

import (
	"context"

	"campusconnect/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateProfileInput carries the allow-listed editable profile fields.
// Nil means "leave unchanged".
type UpdateProfileInput struct {
	Name          *string
	Bio           *string
	PortfolioLink *string
	LinkedinLink  *string
	GithubLink    *string
	LeetcodeLink  *string
	ProfilePhoto  *string
}

// ProfileUsecase defines the interface for profile reads and updates.
type ProfileUsecase interface {
	// Me returns the caller's own profile enriched with roster metadata and
	// connection count.
	Me(ctx context.Context, userID uuid.UUID) (*entity.PublicProfile, error)

	// GetProfile returns a user's public profile as seen by the viewer.
	GetProfile(ctx context.Context, viewerID, userID uuid.UUID) (*entity.PublicProfile, error)

	// UpdateProfile applies the provided fields and returns the refreshed
	// profile.
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*entity.PublicProfile, error)

	// Search finds users by name or email substring.
	Search(ctx context.Context, query string) ([]*entity.UserSummary, error)
}
