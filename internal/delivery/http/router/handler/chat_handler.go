package handler

import (
	"log/slog"
	"strconv"

	deliverycontext "campusconnect/internal/delivery/context"
	"campusconnect/internal/delivery/http/response"
	domainerrors "campusconnect/internal/domain/errors"
	"campusconnect/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ChatHandler holds dependencies for the conversation handlers.
type ChatHandler struct {
	chatUC usecase.ChatUsecase
	logger *slog.Logger
}

// NewChatHandler is the constructor for ChatHandler, injected by Fx.
func NewChatHandler(chatUC usecase.ChatUsecase, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{chatUC: chatUC, logger: logger}
}

type createConversationRequest struct {
	ParticipantIDs []uuid.UUID `json:"participantIds" validate:"required,min=1"`
	Name           string      `json:"name"`
}

type sendMessageRequest struct {
	Text   string     `json:"text"`
	PostID *uuid.UUID `json:"postId"`
}

// ListConversations returns the caller's conversations.
func (h *ChatHandler) ListConversations(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	conversations, err := h.chatUC.ListConversations(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, map[string]any{"conversations": conversations})
}

// CreateConversation starts a conversation with the given participants.
func (h *ChatHandler) CreateConversation(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	var req createConversationRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid conversation input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	conversation, err := h.chatUC.CreateConversation(c.Request().Context(), userID, usecase.CreateConversationInput{
		ParticipantIDs: req.ParticipantIDs,
		Name:           req.Name,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, map[string]any{"conversation": conversation})
}

// ListMessages returns a conversation's messages in chronological order.
func (h *ChatHandler) ListMessages(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	conversationID, err := uuid.Parse(c.Param("conversationId"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid conversation id")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	messages, err := h.chatUC.ListMessages(c.Request().Context(), userID, conversationID, limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, map[string]any{"messages": messages})
}

// SendMessage appends a message to a conversation.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrNoToken
	}

	conversationID, err := uuid.Parse(c.Param("conversationId"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid conversation id")
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("invalid message input")
	}

	message, err := h.chatUC.SendMessage(c.Request().Context(), userID, conversationID, usecase.SendMessageInput{
		Text:   req.Text,
		PostID: req.PostID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, map[string]any{"message": message})
}
