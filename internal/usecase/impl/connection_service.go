package impl

import (
	"context"
	"log/slog"

	deliverycontext "campusconnect/internal/delivery/context"
	"campusconnect/internal/domain/entity"
	domainerrors "campusconnect/internal/domain/errors"
	"campusconnect/internal/domain/repository"
	"campusconnect/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// connectionService implements the ConnectionUsecase interface.
type connectionService struct {
	txManager      repository.TransactionManager
	userRepo       repository.UserRepository
	connectionRepo repository.ConnectionRepository
	logger         *slog.Logger
}

// ConnectionServiceParams holds dependencies for connectionService, injected by Fx.
type ConnectionServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	UserRepo       repository.UserRepository
	ConnectionRepo repository.ConnectionRepository
	Logger         *slog.Logger
}

// NewConnectionService is the constructor for connectionService.
func NewConnectionService(params ConnectionServiceParams) usecase.ConnectionUsecase {
	return &connectionService{
		txManager:      params.TxManager,
		userRepo:       params.UserRepo,
		connectionRepo: params.ConnectionRepo,
		logger:         params.Logger,
	}
}

func (srv *connectionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Connect creates an undirected edge between the caller and the target. The
// pair is stored in canonical order; the unique index resolves races between
// the two directions.
func (srv *connectionService) Connect(ctx context.Context, userID, targetID uuid.UUID) error {
	if userID == targetID {
		return domainerrors.ErrSelfConnection
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.UserRepo().FindByID(ctx, targetID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to look up target user")
		}

		first, second := entity.OrderedPair(userID, targetID)

		return repoFactory.ConnectionRepo().Create(ctx, &entity.Connection{
			UserID:          first,
			ConnectedUserID: second,
		})
	})
	if err != nil {
		if errors.Is(err, repository.ErrConnectionExists) {
			return domainerrors.ErrAlreadyConnected
		}

		return err
	}

	srv.log(ctx).Info("connection created",
		slog.String("user_id", userID.String()),
		slog.String("target_id", targetID.String()))

	return nil
}

// Count returns the number of connections the user has.
func (srv *connectionService) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := srv.connectionRepo.CountForUser(ctx, userID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count connections")
	}

	return count, nil
}

// List returns the users on the other side of the caller's edges.
func (srv *connectionService) List(ctx context.Context, userID uuid.UUID) ([]*entity.UserSummary, error) {
	peerIDs, err := srv.connectionRepo.PeerIDs(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list connections")
	}

	peers, err := srv.userRepo.FindByIDs(ctx, peerIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load connected users")
	}

	summaries := make([]*entity.UserSummary, 0, len(peers))
	for _, peer := range peers {
		summaries = append(summaries, peer.Summary())
	}

	return summaries, nil
}
