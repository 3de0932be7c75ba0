package middleware

import (
	"strings"

	deliverycontext "campusconnect/internal/delivery/context"
	domainerrors "campusconnect/internal/domain/errors"
	"campusconnect/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware is the request gateway: it validates the Bearer access token
// on protected routes. Verification is purely cryptographic, no DB lookup.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the access token and stores the caller's identity
// on the context. A missing or malformed header is 401 NO_TOKEN; a present
// token that fails verification is 403 INVALID_TOKEN, which tells the client
// to attempt a refresh.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := BearerToken(c)
		if err != nil {
			return err
		}

		claims, err := m.tokenSvc.VerifyAccess(token)
		if err != nil {
			return domainerrors.ErrInvalidToken
		}

		deliverycontext.SetIdentity(c, claims.UserID, claims.Email)

		return next(c)
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", domainerrors.ErrNoToken
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader || token == "" {
		return "", domainerrors.ErrNoToken
	}

	return token, nil
}
