// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"campusconnect/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// SignupInput defines the data required to register a new account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// SignupOutput returns the newly created user's basic information.
type SignupOutput struct {
	User *entity.User
}

// LoginOutput returns the generated tokens after a successful login. The
// refresh token travels to the client only as an httpOnly cookie; the access
// token goes in the response body.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshOutput returns the replacement access token.
type RefreshOutput struct {
	AccessToken string
}

// AuthUsecase defines the interface for account and session operations.
// This is the contract that the delivery layer depends on.
type AuthUsecase interface {
	// Signup registers a new account after checking the institutional email
	// domain and the student roster.
	Signup(ctx context.Context, input SignupInput) (*SignupOutput, error)

	// Login verifies credentials, mints both tokens and persists the refresh
	// token hash. If persisting fails no tokens are released.
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)

	// Refresh exchanges a valid refresh token for a new access token. The
	// token must verify cryptographically and match the hash stored on the
	// user record.
	Refresh(ctx context.Context, rawRefreshToken string) (*RefreshOutput, error)

	// Logout clears the stored session for the token's owner. Best effort:
	// an invalid token is not an error.
	Logout(ctx context.Context, rawRefreshToken string) error

	// DeleteAccount removes the user and their connection edges in one
	// transaction.
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}
