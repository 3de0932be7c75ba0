package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "campusconnect/internal/delivery/context"
	"campusconnect/internal/delivery/http/response"
	domainerrors "campusconnect/internal/domain/errors"
	"campusconnect/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProfileHandler holds dependencies for profile and connection handlers.
type ProfileHandler struct {
	profileUC    usecase.ProfileUsecase
	connectionUC usecase.ConnectionUsecase
	logger       *slog.Logger
}

// NewProfileHandler is the constructor for ProfileHandler, injected by Fx.
func NewProfileHandler(profileUC usecase.ProfileUsecase, connectionUC usecase.ConnectionUsecase, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profileUC: profileUC, connectionUC: connectionUC, logger: logger}
}

type updateProfileRequest struct {
	Name          *string `json:"name"`
	Bio           *string `json:"bio"`
	PortfolioLink *string `json:"portfolio_link"`
	LinkedinLink  *string `json:"linkedin_link"`
	GithubLink    *string `json:"github_link"`
	LeetcodeLink  *string `json:"leetcode_link"`
	ProfilePhoto  *string `json:"profile_photo"`
}

// Me returns the caller's own enriched profile.
func (h *ProfileHandler) Me(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	profile, err := h.profileUC.Me(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, profile)
}

// GetProfile returns another user's public profile.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	viewerID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid user id")
	}

	profile, err := h.profileUC.GetProfile(c.Request().Context(), viewerID, targetID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, profile)
}

// UpdateProfile applies the allow-listed profile fields.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid profile input")
	}

	profile, err := h.profileUC.UpdateProfile(c.Request().Context(), userID, usecase.UpdateProfileInput{
		Name:          req.Name,
		Bio:           req.Bio,
		PortfolioLink: req.PortfolioLink,
		LinkedinLink:  req.LinkedinLink,
		GithubLink:    req.GithubLink,
		LeetcodeLink:  req.LeetcodeLink,
		ProfilePhoto:  req.ProfilePhoto,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, map[string]any{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}

// Search finds users by name or email substring.
func (h *ProfileHandler) Search(c echo.Context) error {
	if _, ok := deliverycontext.GetUserID(c); !ok {
		return domainerrors.ErrNoToken
	}

	results, err := h.profileUC.Search(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, map[string]any{"results": results})
}

// Connect creates a connection between the caller and the target user.
func (h *ProfileHandler) Connect(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid user id")
	}

	if err := h.connectionUC.Connect(c.Request().Context(), userID, targetID); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "Connected successfully")
}

// ConnectionsCount returns the caller's connection count.
func (h *ProfileHandler) ConnectionsCount(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	count, err := h.connectionUC.Count(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, map[string]any{"count": count})
}

// ConnectionsList returns the users connected to the caller.
func (h *ProfileHandler) ConnectionsList(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	connections, err := h.connectionUC.List(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, map[string]any{"connections": connections})
}
