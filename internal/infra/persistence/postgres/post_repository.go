package postgres

import (
	"context"

	"campusconnect/internal/domain/entity"
	domainerrors "campusconnect/internal/domain/errors"
	"campusconnect/internal/domain/repository"
	"campusconnect/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// postRepository implements the repository.PostRepository interface.
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository is the constructor for postRepository.
func NewPostRepository(db *gorm.DB) repository.PostRepository {
	return &postRepository{db: db}
}

// withAssociations preloads everything a fully rendered post needs.
func (repo *postRepository) withAssociations(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).
		Preload("Author").
		Preload("Likes").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("post_comments.created_at ASC")
		}).
		Preload("Comments.User").
		Preload("Shares")
}

// FindByID retrieves a post with its author, likes, comments and shares.
func (repo *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	var postM model.PostModel
	if err := repo.withAssociations(ctx).First(&postM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPostNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toPostDomain(&postM), nil
}

// FindLatest returns the newest posts, fully loaded, newest first.
func (repo *postRepository) FindLatest(ctx context.Context, limit int) ([]*entity.Post, error) {
	var postModels []model.PostModel
	if err := repo.withAssociations(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&postModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	posts := make([]*entity.Post, 0, len(postModels))
	for i := range postModels {
		posts = append(posts, toPostDomain(&postModels[i]))
	}

	return posts, nil
}

// Create persists a new post.
func (repo *postRepository) Create(ctx context.Context, post *entity.Post) error {
	postM := &model.PostModel{
		AuthorID: post.AuthorID,
		Content:  post.Content,
		Image:    post.Image,
	}

	if err := repo.db.WithContext(ctx).Create(postM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create post")
	}

	post.ID = postM.ID
	post.CreatedAt = postM.CreatedAt
	post.UpdatedAt = postM.UpdatedAt

	return nil
}

// AddLike records that the user likes the post; idempotent.
func (repo *postRepository) AddLike(ctx context.Context, postID, userID uuid.UUID) error {
	likeM := &model.PostLikeModel{PostID: postID, UserID: userID}

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(likeM).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrPostNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to like post")
	}

	return nil
}

// RemoveLike removes the user's like from the post.
func (repo *postRepository) RemoveLike(ctx context.Context, postID, userID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&model.PostLikeModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to unlike post")
	}

	return nil
}

// AddComment appends a comment to the post and fills in generated fields.
func (repo *postRepository) AddComment(ctx context.Context, comment *entity.Comment) error {
	commentM := &model.CommentModel{
		PostID: comment.PostID,
		UserID: comment.UserID,
		Text:   comment.Text,
	}

	if err := repo.db.WithContext(ctx).Create(commentM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrPostNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to comment on post")
	}

	comment.ID = commentM.ID
	comment.CreatedAt = commentM.CreatedAt

	return nil
}

// AddShares records the post as shared with the given users; duplicates are
// ignored.
func (repo *postRepository) AddShares(ctx context.Context, postID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}

	shareModels := make([]model.PostShareModel, 0, len(userIDs))
	for _, userID := range userIDs {
		shareModels = append(shareModels, model.PostShareModel{PostID: postID, UserID: userID})
	}

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&shareModels).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrPostNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to record post shares")
	}

	return nil
}

// --- Mapper Functions ---

func toPostDomain(data *model.PostModel) *entity.Post {
	if data == nil {
		return nil
	}

	likes := make([]uuid.UUID, 0, len(data.Likes))
	for _, like := range data.Likes {
		likes = append(likes, like.UserID)
	}

	shares := make([]uuid.UUID, 0, len(data.Shares))
	for _, share := range data.Shares {
		shares = append(shares, share.UserID)
	}

	comments := make([]entity.Comment, 0, len(data.Comments))
	for i := range data.Comments {
		comments = append(comments, *toCommentDomain(&data.Comments[i]))
	}

	return &entity.Post{
		ID:         data.ID,
		AuthorID:   data.AuthorID,
		Author:     toUserDomain(data.Author),
		Content:    data.Content,
		Image:      data.Image,
		Likes:      likes,
		Comments:   comments,
		SharedWith: shares,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

func toCommentDomain(data *model.CommentModel) *entity.Comment {
	if data == nil {
		return nil
	}

	return &entity.Comment{
		ID:        data.ID,
		PostID:    data.PostID,
		UserID:    data.UserID,
		User:      toUserDomain(data.User),
		Text:      data.Text,
		CreatedAt: data.CreatedAt,
	}
}
