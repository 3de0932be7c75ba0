package service

import (
	"time"

	"github.com/google/uuid"
)

// Claims is the identity a verified token asserts.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Type   string // "access" or "refresh"
}

// TokenService mints and verifies the two token classes. Access tokens are
// stateless capabilities; refresh tokens additionally require an equality
// check against the hash stored on the user record, which is the use case
// layer's responsibility.
type TokenService interface {
	// IssueAccessToken signs a short-lived access token for the identity.
	IssueAccessToken(userID uuid.UUID, email string) (string, error)

	// IssueRefreshToken signs a long-lived refresh token for the identity.
	// The caller must persist HashToken of the result as the user's current
	// session; signing without persisting must fail the whole operation.
	IssueRefreshToken(userID uuid.UUID, email string) (string, error)

	// VerifyAccess checks signature and expiry of an access token.
	VerifyAccess(token string) (*Claims, error)

	// VerifyRefresh checks signature and expiry of a refresh token.
	VerifyRefresh(token string) (*Claims, error)

	// HashToken derives the storage form of a raw refresh token.
	HashToken(raw string) string

	// RefreshTokenDuration returns the configured refresh token lifetime.
	RefreshTokenDuration() time.Duration
}
