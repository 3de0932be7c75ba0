package handler

import (
	"log/slog"

	deliverycontext "campusconnect/internal/delivery/context"
	"campusconnect/internal/delivery/http/response"
	domainerrors "campusconnect/internal/domain/errors"
	"campusconnect/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PostHandler holds dependencies for the post feed handlers.
type PostHandler struct {
	postUC usecase.PostUsecase
	logger *slog.Logger
}

// NewPostHandler is the constructor for PostHandler, injected by Fx.
func NewPostHandler(postUC usecase.PostUsecase, logger *slog.Logger) *PostHandler {
	return &PostHandler{postUC: postUC, logger: logger}
}

type createPostRequest struct {
	Content string `json:"content" validate:"required"`
	Image   string `json:"image"`
}

type commentRequest struct {
	Text string `json:"text" validate:"required"`
}

type shareRequest struct {
	TargetUserID *uuid.UUID `json:"targetUserId"`
}

// Feed returns the latest posts rendered for the caller.
func (h *PostHandler) Feed(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	posts, err := h.postUC.Feed(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, map[string]any{"posts": posts})
}

// Create publishes a new post.
func (h *PostHandler) Create(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid post input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postUC.Create(c.Request().Context(), userID, usecase.CreatePostInput{
		Content: req.Content,
		Image:   req.Image,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, map[string]any{"post": post})
}

// ToggleLike flips the caller's like on a post.
func (h *PostHandler) ToggleLike(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	postID, err := uuid.Parse(c.Param("postId"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid post id")
	}

	out, err := h.postUC.ToggleLike(c.Request().Context(), userID, postID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, out)
}

// Comment appends a comment to a post.
func (h *PostHandler) Comment(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	postID, err := uuid.Parse(c.Param("postId"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid post id")
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid comment input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.postUC.AddComment(c.Request().Context(), userID, postID, req.Text)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, map[string]any{"comment": comment})
}

// Share records a post share, optionally targeting a specific user.
func (h *PostHandler) Share(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	postID, err := uuid.Parse(c.Param("postId"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid post id")
	}

	var req shareRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid share input")
	}

	out, err := h.postUC.Share(c.Request().Context(), userID, postID, req.TargetUserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, out)
}
