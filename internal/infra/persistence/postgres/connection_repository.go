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
)

// connectionRepository implements the repository.ConnectionRepository interface.
type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository is the constructor for connectionRepository.
func NewConnectionRepository(db *gorm.DB) repository.ConnectionRepository {
	return &connectionRepository{db: db}
}

// Create persists a new edge. The unique index on the canonical pair turns a
// concurrent duplicate into ErrConnectionExists.
func (repo *connectionRepository) Create(ctx context.Context, conn *entity.Connection) error {
	connM := &model.ConnectionModel{
		UserID:          conn.UserID,
		ConnectedUserID: conn.ConnectedUserID,
	}

	if err := repo.db.WithContext(ctx).Create(connM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrConnectionExists
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create connection")
	}

	conn.ID = connM.ID
	conn.CreatedAt = connM.CreatedAt

	return nil
}

// Exists reports whether an edge between the two users exists. Pairs are
// stored in canonical order, so a single lookup covers both directions.
func (repo *connectionRepository) Exists(ctx context.Context, a, b uuid.UUID) (bool, error) {
	first, second := entity.OrderedPair(a, b)

	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.ConnectionModel{}).
		Where("user_id = ? AND connected_user_id = ?", first, second).
		Count(&count).Error
	if err != nil {
		return false, errors.WithStack(err)
	}

	return count > 0, nil
}

// CountForUser returns the number of edges touching the user.
func (repo *connectionRepository) CountForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.ConnectionModel{}).
		Where("user_id = ? OR connected_user_id = ?", userID, userID).
		Count(&count).Error
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

// PeerIDs returns the IDs of the users connected to the given user.
func (repo *connectionRepository) PeerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var connModels []model.ConnectionModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ? OR connected_user_id = ?", userID, userID).
		Find(&connModels).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	peers := make([]uuid.UUID, 0, len(connModels))
	for _, connM := range connModels {
		if connM.UserID == userID {
			peers = append(peers, connM.ConnectedUserID)
		} else {
			peers = append(peers, connM.UserID)
		}
	}

	return peers, nil
}

// DeleteForUser removes every edge touching the user.
func (repo *connectionRepository) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("user_id = ? OR connected_user_id = ?", userID, userID).
		Delete(&model.ConnectionModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete connections")
	}

	return nil
}
