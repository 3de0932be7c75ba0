package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "campusconnect/internal/delivery/context"
	"campusconnect/internal/domain/entity"
	domainerrors "campusconnect/internal/domain/errors"
	"campusconnect/internal/domain/repository"
	"campusconnect/internal/domain/service"
	"campusconnect/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const messagesLimit = 100

// chatService implements the ChatUsecase interface.
type chatService struct {
	txManager        repository.TransactionManager
	conversationRepo repository.ConversationRepository
	userRepo         repository.UserRepository
	postRepo         repository.PostRepository
	publisher        service.EventPublisher
	logger           *slog.Logger
}

// ChatServiceParams holds dependencies for chatService, injected by Fx.
type ChatServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	ConversationRepo repository.ConversationRepository
	UserRepo         repository.UserRepository
	PostRepo         repository.PostRepository
	Publisher        service.EventPublisher
	Logger           *slog.Logger
}

// NewChatService is the constructor for chatService.
func NewChatService(params ChatServiceParams) usecase.ChatUsecase {
	return &chatService{
		txManager:        params.TxManager,
		conversationRepo: params.ConversationRepo,
		userRepo:         params.UserRepo,
		postRepo:         params.PostRepo,
		publisher:        params.Publisher,
		logger:           params.Logger,
	}
}

func (srv *chatService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListConversations returns the caller's conversations, most recently active
// first.
func (srv *chatService) ListConversations(ctx context.Context, userID uuid.UUID) ([]*usecase.ConversationView, error) {
	convs, err := srv.conversationRepo.FindForUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list conversations")
	}

	views := make([]*usecase.ConversationView, 0, len(convs))
	for _, conv := range convs {
		views = append(views, renderConversation(conv, userID))
	}

	return views, nil
}

// CreateConversation starts a conversation with at least one other
// participant. A single unnamed peer dedupes to the existing direct chat.
func (srv *chatService) CreateConversation(ctx context.Context, userID uuid.UUID, input usecase.CreateConversationInput) (*usecase.ConversationView, error) {
	peerIDs := dedupePeers(input.ParticipantIDs, userID)
	if len(peerIDs) == 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("at least one other participant is required")
	}

	name := strings.TrimSpace(input.Name)
	if len(peerIDs) == 1 && name == "" {
		existing, err := srv.conversationRepo.FindDirect(ctx, userID, peerIDs[0])
		if err == nil {
			return renderConversation(existing, userID), nil
		}
		if !errors.Is(err, repository.ErrConversationNotFound) {
			return nil, errors.Wrap(err, "failed to look up direct conversation")
		}
	}

	memberIDs := append([]uuid.UUID{userID}, peerIDs...)
	members, err := srv.userRepo.FindByIDs(ctx, memberIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load participants")
	}
	if len(members) != len(memberIDs) {
		return nil, domainerrors.ErrUserNotFound.WrapMessage("one or more participants do not exist")
	}

	conv := &entity.Conversation{
		Name:         name,
		IsGroup:      len(peerIDs) > 1,
		Participants: members,
	}
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.ConversationRepo().Create(ctx, conv)
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("conversation created",
		slog.String("conversation_id", conv.ID.String()),
		slog.Int("participants", len(members)))

	view := renderConversation(conv, userID)
	for _, member := range members {
		srv.publisher.PublishToUser(member.ID, service.EventConversationUpdate, view)
	}

	return view, nil
}

// ListMessages returns a conversation's messages in chronological order.
// The caller must be a participant.
func (srv *chatService) ListMessages(ctx context.Context, userID, conversationID uuid.UUID, limit int) ([]*usecase.MessageView, error) {
	conv, err := srv.loadParticipating(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > messagesLimit {
		limit = messagesLimit
	}

	msgs, err := srv.conversationRepo.FindMessages(ctx, conv.ID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load messages")
	}

	views := make([]*usecase.MessageView, 0, len(msgs))
	for _, msg := range msgs {
		views = append(views, renderMessage(msg, userID))
	}

	return views, nil
}

// SendMessage appends a message, marks an attached post as shared with every
// participant, and notifies the conversation and user rooms.
func (srv *chatService) SendMessage(ctx context.Context, userID, conversationID uuid.UUID, input usecase.SendMessageInput) (*usecase.MessageView, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" && input.PostID == nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("message needs text or a shared post")
	}

	conv, err := srv.loadParticipating(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	msg := &entity.Message{
		ConversationID: conv.ID,
		SenderID:       userID,
		Text:           text,
		PostID:         input.PostID,
	}
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if input.PostID != nil {
			post, err := repoFactory.PostRepo().FindByID(ctx, *input.PostID)
			if err != nil {
				if errors.Is(err, repository.ErrPostNotFound) {
					return domainerrors.ErrPostNotFound
				}

				return err
			}
			msg.Post = post

			recipients := make([]uuid.UUID, 0, len(conv.Participants))
			for _, p := range conv.Participants {
				recipients = append(recipients, p.ID)
			}
			if err := repoFactory.PostRepo().AddShares(ctx, post.ID, recipients); err != nil {
				return err
			}
		}

		return repoFactory.ConversationRepo().CreateMessage(ctx, msg)
	})
	if err != nil {
		return nil, err
	}

	sender, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load sender")
	}
	msg.Sender = sender

	view := renderMessage(msg, userID)
	srv.publisher.PublishToConversation(conv.ID, service.EventMessageNew, view)

	conv.LastMessage = msg
	conv.LastMessageAt = msg.CreatedAt
	for _, p := range conv.Participants {
		srv.publisher.PublishToUser(p.ID, service.EventConversationUpdate, renderConversation(conv, p.ID))
	}

	return view, nil
}

func (srv *chatService) IsParticipant(ctx context.Context, userID, conversationID uuid.UUID) bool {
	_, err := srv.loadParticipating(ctx, userID, conversationID)

	return err == nil
}

// loadParticipating fetches a conversation and enforces membership.
func (srv *chatService) loadParticipating(ctx context.Context, userID, conversationID uuid.UUID) (*entity.Conversation, error) {
	conv, err := srv.conversationRepo.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return nil, domainerrors.ErrConversationNotFound
		}

		return nil, errors.Wrap(err, "failed to load conversation")
	}

	if !conv.HasParticipant(userID) {
		return nil, domainerrors.ErrNotParticipant
	}

	return conv, nil
}

// dedupePeers drops the caller and duplicates from the participant list.
func dedupePeers(ids []uuid.UUID, selfID uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]struct{}{selfID: {}}
	peers := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		peers = append(peers, id)
	}

	return peers
}

// renderConversation projects a conversation for one participant.
func renderConversation(conv *entity.Conversation, viewerID uuid.UUID) *usecase.ConversationView {
	if conv == nil {
		return nil
	}

	participants := make([]*entity.UserSummary, 0, len(conv.Participants))
	for _, p := range conv.Participants {
		participants = append(participants, p.Summary())
	}

	return &usecase.ConversationView{
		ID:            conv.ID,
		Name:          conv.DisplayName(viewerID),
		IsGroup:       conv.IsGroup,
		Participants:  participants,
		LastMessage:   renderMessage(conv.LastMessage, viewerID),
		LastMessageAt: conv.LastMessageAt,
	}
}

// renderMessage projects a message for one viewer.
func renderMessage(msg *entity.Message, viewerID uuid.UUID) *usecase.MessageView {
	if msg == nil {
		return nil
	}

	return &usecase.MessageView{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		Sender:         msg.Sender.Summary(),
		Text:           msg.Text,
		Post:           renderPost(msg.Post, viewerID),
		CreatedAt:      msg.CreatedAt,
	}
}
