package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "campusconnect/internal/delivery/context"
	"campusconnect/internal/domain/entity"
	domainerrors "campusconnect/internal/domain/errors"
	"campusconnect/internal/domain/repository"
	"campusconnect/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	feedLimit = 50

	// maxImageLength caps the data-URL payload of a post image.
	maxImageLength = 2_000_000
)

// postService implements the PostUsecase interface.
type postService struct {
	txManager repository.TransactionManager
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	logger    *slog.Logger
}

// PostServiceParams holds dependencies for postService, injected by Fx.
type PostServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	PostRepo  repository.PostRepository
	UserRepo  repository.UserRepository
	Logger    *slog.Logger
}

// NewPostService is the constructor for postService.
func NewPostService(params PostServiceParams) usecase.PostUsecase {
	return &postService{
		txManager: params.TxManager,
		postRepo:  params.PostRepo,
		userRepo:  params.UserRepo,
		logger:    params.Logger,
	}
}

func (srv *postService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Feed returns the latest posts rendered for the viewer.
func (srv *postService) Feed(ctx context.Context, viewerID uuid.UUID) ([]*usecase.PostView, error) {
	posts, err := srv.postRepo.FindLatest(ctx, feedLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load feed")
	}

	views := make([]*usecase.PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, renderPost(post, viewerID))
	}

	return views, nil
}

// Create publishes a new post.
func (srv *postService) Create(ctx context.Context, authorID uuid.UUID, input usecase.CreatePostInput) (*usecase.PostView, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("post content is required")
	}
	if len(input.Image) > maxImageLength {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("image payload too large")
	}

	post := &entity.Post{
		AuthorID: authorID,
		Content:  content,
		Image:    input.Image,
	}
	if err := srv.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	author, err := srv.userRepo.FindByID(ctx, authorID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load post author")
	}
	post.Author = author

	srv.log(ctx).Info("post created",
		slog.String("post_id", post.ID.String()),
		slog.String("author_id", authorID.String()))

	return renderPost(post, authorID), nil
}

// ToggleLike likes the post if the user hasn't, unlikes otherwise. The read
// and the write share one transaction so two rapid toggles settle cleanly.
func (srv *postService) ToggleLike(ctx context.Context, userID, postID uuid.UUID) (*usecase.ToggleLikeOutput, error) {
	var output *usecase.ToggleLikeOutput
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		postRepo := repoFactory.PostRepo()

		post, err := postRepo.FindByID(ctx, postID)
		if err != nil {
			return err
		}

		liked := !post.IsLikedBy(userID)
		if liked {
			err = postRepo.AddLike(ctx, postID, userID)
		} else {
			err = postRepo.RemoveLike(ctx, postID, userID)
		}
		if err != nil {
			return err
		}

		likesCount := len(post.Likes)
		if liked {
			likesCount++
		} else {
			likesCount--
		}
		output = &usecase.ToggleLikeOutput{Liked: liked, LikesCount: likesCount}

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, domainerrors.ErrPostNotFound
		}

		return nil, err
	}

	return output, nil
}

// AddComment appends a comment to the post.
func (srv *postService) AddComment(ctx context.Context, userID, postID uuid.UUID, text string) (*usecase.CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("comment cannot be empty")
	}

	comment := &entity.Comment{
		PostID: postID,
		UserID: userID,
		Text:   text,
	}
	if err := srv.postRepo.AddComment(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, domainerrors.ErrPostNotFound
		}

		return nil, err
	}

	commenter, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load commenter")
	}
	comment.User = commenter

	return renderComment(comment), nil
}

// Share records the post as shared, optionally with a specific user.
// Re-sharing with the same user does not grow the share list.
func (srv *postService) Share(ctx context.Context, userID, postID uuid.UUID, targetUserID *uuid.UUID) (*usecase.ShareOutput, error) {
	var output *usecase.ShareOutput
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		postRepo := repoFactory.PostRepo()

		post, err := postRepo.FindByID(ctx, postID)
		if err != nil {
			return err
		}

		sharesCount := post.SharesCount()
		if targetUserID != nil && !post.IsSharedWith(*targetUserID) {
			if err := postRepo.AddShares(ctx, postID, []uuid.UUID{*targetUserID}); err != nil {
				return err
			}
			sharesCount++
		}

		output = &usecase.ShareOutput{SharesCount: sharesCount}

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, domainerrors.ErrPostNotFound
		}

		return nil, err
	}

	return output, nil
}

// renderPost projects a post into the view the feed serves.
func renderPost(post *entity.Post, viewerID uuid.UUID) *usecase.PostView {
	if post == nil {
		return nil
	}

	comments := make([]*usecase.CommentView, 0, len(post.Comments))
	for i := range post.Comments {
		comments = append(comments, renderComment(&post.Comments[i]))
	}

	return &usecase.PostView{
		ID:          post.ID,
		Author:      post.Author.Summary(),
		Content:     post.Content,
		Image:       post.Image,
		LikesCount:  len(post.Likes),
		IsLiked:     post.IsLikedBy(viewerID),
		Comments:    comments,
		SharesCount: post.SharesCount(),
		CreatedAt:   post.CreatedAt,
	}
}

func renderComment(comment *entity.Comment) *usecase.CommentView {
	if comment == nil {
		return nil
	}

	return &usecase.CommentView{
		ID:        comment.ID,
		User:      comment.User.Summary(),
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
}
