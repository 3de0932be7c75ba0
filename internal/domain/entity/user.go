// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing one campus account.
// The password hash and the refresh token hash are credentials and must never
// be serialized into API responses.
type User struct {
	ID            uuid.UUID
	Name          string
	Email         string // Unique, lowercased institutional email.
	PasswordHash  string
	Bio           string
	PortfolioLink string
	LinkedinLink  string
	GithubLink    string
	LeetcodeLink  string
	ProfilePhoto  string

	// RefreshTokenHash stores the SHA-256 hex of the single currently valid
	// refresh token. Nil means no active session: the account is logged out
	// everywhere. Rotated on every login, cleared on logout.
	RefreshTokenHash *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicProfile is the externally visible projection of a user, enriched with
// roster metadata and connection info relative to a viewer.
type PublicProfile struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PortfolioLink    string    `json:"portfolio_link"`
	LinkedinLink     string    `json:"linkedin_link"`
	GithubLink       string    `json:"github_link"`
	LeetcodeLink     string    `json:"leetcode_link"`
	Bio              string    `json:"bio"`
	ProfilePhoto     string    `json:"profile_photo"`
	Department       string    `json:"department"`
	Year             string    `json:"year"`
	ConnectionsCount int64     `json:"connections_count"`
	IsConnected      bool      `json:"is_connected"`
	IsOwnProfile     bool      `json:"is_own_profile"`
}

// UserSummary is the minimal projection embedded in posts, messages
// and search results.
type UserSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ProfilePhoto string    `json:"profile_photo"`
}

// Summary projects the user into its embeddable form.
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}

	return &UserSummary{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		ProfilePhoto: u.ProfilePhoto,
	}
}
