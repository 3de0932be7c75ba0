// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"campusconnect/config"
	"campusconnect/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// Access and refresh tokens are signed with separate HMAC secrets so that one
// class of token can never be replayed as the other.
type jwtService struct {
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	return &jwtService{
		accessSecret:  cfg.SecretKey.Access,
		refreshSecret: cfg.SecretKey.Refresh,
		accessTTL:     cfg.Auth.AccessTokenTTLOrDefault(),
		refreshTTL:    cfg.Auth.RefreshTokenTTLOrDefault(),
	}, nil
}

// IssueAccessToken signs a short-lived access token asserting the identity.
func (s *jwtService) IssueAccessToken(userID uuid.UUID, email string) (string, error) {
	return s.generateToken(userID, email, s.accessTTL, s.accessSecret, tokenTypeAccess)
}

// IssueRefreshToken signs a long-lived refresh token asserting the identity.
func (s *jwtService) IssueRefreshToken(userID uuid.UUID, email string) (string, error) {
	return s.generateToken(userID, email, s.refreshTTL, s.refreshSecret, tokenTypeRefresh)
}

// VerifyAccess checks signature and expiry of an access token.
func (s *jwtService) VerifyAccess(token string) (*service.Claims, error) {
	return s.verify(token, s.accessSecret, tokenTypeAccess)
}

// VerifyRefresh checks signature and expiry of a refresh token. Equality
// against the stored hash is checked by the caller; a token that passes here
// may still be revoked.
func (s *jwtService) VerifyRefresh(token string) (*service.Claims, error) {
	return s.verify(token, s.refreshSecret, tokenTypeRefresh)
}

// HashToken derives the storage form of a raw refresh token. The raw token is
// never written to the database.
func (s *jwtService) HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))

	return hex.EncodeToString(sum[:])
}

// RefreshTokenDuration returns the configured duration for refresh tokens.
func (s *jwtService) RefreshTokenDuration() time.Duration {
	return s.refreshTTL
}

// generateToken is a private helper to create a JWT with specific claims.
func (s *jwtService) generateToken(userID uuid.UUID, email string, ttl time.Duration, secret, tokenType string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
		"type":  tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

func (s *jwtService) verify(tokenString, secret, wantType string) (*service.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(secret), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse token")
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("failed to parse token claims")
	}

	tokenType, _ := mapClaims["type"].(string)
	if tokenType != wantType {
		return nil, errors.Errorf("unexpected token type %q", tokenType)
	}

	sub, _ := mapClaims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.Wrap(err, "invalid subject in token")
	}

	email, _ := mapClaims["email"].(string)

	return &service.Claims{
		UserID: userID,
		Email:  email,
		Type:   tokenType,
	}, nil
}
