package postgres

import (
	"context"
	"time"

	"campusconnect/internal/domain/entity"
	domainerrors "campusconnect/internal/domain/errors"
	"campusconnect/internal/domain/repository"
	"campusconnect/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// conversationRepository implements the repository.ConversationRepository interface.
type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository is the constructor for conversationRepository.
func NewConversationRepository(db *gorm.DB) repository.ConversationRepository {
	return &conversationRepository{db: db}
}

// withAssociations preloads participants and the last-message preview.
func (repo *conversationRepository) withAssociations(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).
		Preload("Participants.User").
		Preload("LastMessage").
		Preload("LastMessage.Sender")
}

// FindByID retrieves a conversation with its participants and last message.
func (repo *conversationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Conversation, error) {
	var convM model.ConversationModel
	if err := repo.withAssociations(ctx).First(&convM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrConversationNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toConversationDomain(&convM), nil
}

// FindForUser returns the conversations the user participates in, most
// recently active first.
func (repo *conversationRepository) FindForUser(ctx context.Context, userID uuid.UUID) ([]*entity.Conversation, error) {
	var convModels []model.ConversationModel
	err := repo.withAssociations(ctx).
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ?", userID).
		Order("conversations.last_message_at DESC").
		Find(&convModels).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	convs := make([]*entity.Conversation, 0, len(convModels))
	for i := range convModels {
		convs = append(convs, toConversationDomain(&convModels[i]))
	}

	return convs, nil
}

// FindDirect returns an existing unnamed two-party conversation between
// exactly the given participants, or ErrConversationNotFound.
func (repo *conversationRepository) FindDirect(ctx context.Context, a, b uuid.UUID) (*entity.Conversation, error) {
	var convM model.ConversationModel
	err := repo.withAssociations(ctx).
		Where("conversations.is_group = false").
		Where("conversations.id IN (?)", repo.db.
			Model(&model.ConversationParticipantModel{}).
			Select("conversation_id").
			Where("user_id IN ?", []uuid.UUID{a, b}).
			Group("conversation_id").
			Having("COUNT(DISTINCT user_id) = 2")).
		Where("(SELECT COUNT(*) FROM conversation_participants p WHERE p.conversation_id = conversations.id) = 2").
		First(&convM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrConversationNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toConversationDomain(&convM), nil
}

// Create persists a new conversation with its participant set.
func (repo *conversationRepository) Create(ctx context.Context, conv *entity.Conversation) error {
	convM := &model.ConversationModel{
		Name:          conv.Name,
		IsGroup:       conv.IsGroup,
		LastMessageAt: time.Now(),
	}
	for _, p := range conv.Participants {
		if p == nil {
			continue
		}
		convM.Participants = append(convM.Participants, model.ConversationParticipantModel{
			UserID: p.ID,
		})
	}

	if err := repo.db.WithContext(ctx).Create(convM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create conversation")
	}

	conv.ID = convM.ID
	conv.LastMessageAt = convM.LastMessageAt
	conv.CreatedAt = convM.CreatedAt
	conv.UpdatedAt = convM.UpdatedAt

	return nil
}

// CreateMessage appends a message and advances the conversation's
// last-message marker.
func (repo *conversationRepository) CreateMessage(ctx context.Context, msg *entity.Message) error {
	msgM := &model.MessageModel{
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		Text:           msg.Text,
		PostID:         msg.PostID,
	}

	if err := repo.db.WithContext(ctx).Create(msgM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrConversationNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create message")
	}

	err := repo.db.WithContext(ctx).
		Model(&model.ConversationModel{}).
		Where("id = ?", msg.ConversationID).
		Updates(map[string]any{
			"last_message_id": msgM.ID,
			"last_message_at": msgM.CreatedAt,
		}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to advance conversation marker")
	}

	msg.ID = msgM.ID
	msg.CreatedAt = msgM.CreatedAt

	return nil
}

// FindMessages returns up to limit messages of a conversation in
// chronological order.
func (repo *conversationRepository) FindMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]*entity.Message, error) {
	var msgModels []model.MessageModel
	err := repo.db.WithContext(ctx).
		Preload("Sender").
		Preload("Post").
		Preload("Post.Author").
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Limit(limit).
		Find(&msgModels).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	msgs := make([]*entity.Message, 0, len(msgModels))
	for i := range msgModels {
		msgs = append(msgs, toMessageDomain(&msgModels[i]))
	}

	return msgs, nil
}

// --- Mapper Functions ---

func toConversationDomain(data *model.ConversationModel) *entity.Conversation {
	if data == nil {
		return nil
	}

	participants := make([]*entity.User, 0, len(data.Participants))
	for _, p := range data.Participants {
		if p.User != nil {
			participants = append(participants, toUserDomain(p.User))
		}
	}

	return &entity.Conversation{
		ID:            data.ID,
		Name:          data.Name,
		IsGroup:       data.IsGroup,
		Participants:  participants,
		LastMessage:   toMessageDomain(data.LastMessage),
		LastMessageAt: data.LastMessageAt,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

func toMessageDomain(data *model.MessageModel) *entity.Message {
	if data == nil {
		return nil
	}

	return &entity.Message{
		ID:             data.ID,
		ConversationID: data.ConversationID,
		SenderID:       data.SenderID,
		Sender:         toUserDomain(data.Sender),
		Text:           data.Text,
		PostID:         data.PostID,
		Post:           toPostDomain(data.Post),
		CreatedAt:      data.CreatedAt,
	}
}
