// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"campusconnect/config"
	deliverycontext "campusconnect/internal/delivery/context"
	"campusconnect/internal/delivery/http/response"
	domainerrors "campusconnect/internal/domain/errors"
	"campusconnect/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for account and session handlers.
type AuthHandler struct {
	authUC usecase.AuthUsecase
	cfg    *config.Config
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(authUC usecase.AuthUsecase, cfg *config.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authUC: authUC, cfg: cfg, logger: logger}
}

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Signup handles the account registration request.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid signup input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	_, err := h.authUC.Signup(c.Request().Context(), usecase.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "Signup successful")
}

// Login verifies credentials and opens a session. Ordering matters: the
// usecase persists the refresh hash before any cookie is written, so a
// storage failure never leaks an unrevocable token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.authUC.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	h.setRefreshCookie(c, output.RefreshToken)

	return response.OK(c, response.TokenBody{
		Message:     "Login successful",
		AccessToken: output.AccessToken,
	})
}

// Refresh exchanges the refresh cookie for a new access token. A rejected
// token clears the cookie so the client stops presenting it.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(h.cfg.Auth.CookieNameOrDefault())
	if err != nil || cookie.Value == "" {
		return domainerrors.ErrNoToken
	}

	output, err := h.authUC.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		h.clearRefreshCookie(c)

		return errors.WithStack(err)
	}

	return response.OK(c, response.TokenBody{AccessToken: output.AccessToken})
}

// Logout always clears the cookie and answers 200; clearing the stored
// session server-side is best effort.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(h.cfg.Auth.CookieNameOrDefault()); err == nil && cookie.Value != "" {
		if err := h.authUC.Logout(c.Request().Context(), cookie.Value); err != nil {
			h.logger.Warn("logout cleanup failed", slog.Any("error", err))
		}
	}

	h.clearRefreshCookie(c)

	return response.Message(c, http.StatusOK, "Logged out")
}

// DeleteAccount removes the authenticated user's account.
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	if err := h.authUC.DeleteAccount(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	h.clearRefreshCookie(c)

	return response.Message(c, http.StatusOK, "Account deleted successfully")
}

func (h *AuthHandler) refreshCookie(value string, maxAge time.Duration) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	switch h.cfg.Auth.CookieSameSite {
	case "none":
		sameSite = http.SameSiteNoneMode
	case "strict":
		sameSite = http.SameSiteStrictMode
	}

	return &http.Cookie{
		Name:     h.cfg.Auth.CookieNameOrDefault(),
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Auth.CookieSecure,
		SameSite: sameSite,
	}
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(h.refreshCookie(token, h.cfg.Auth.RefreshTokenTTLOrDefault()))
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	cookie := h.refreshCookie("", 0)
	cookie.MaxAge = -1
	c.SetCookie(cookie)
}
