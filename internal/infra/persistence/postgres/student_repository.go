package postgres

import (
	"context"
	"strings"

	"campusconnect/internal/domain/entity"
	"campusconnect/internal/domain/repository"
	"campusconnect/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// studentRepository implements the repository.StudentRepository interface.
type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository is the constructor for studentRepository.
func NewStudentRepository(db *gorm.DB) repository.StudentRepository {
	return &studentRepository{db: db}
}

// FindByEmail retrieves a roster record by lowercased email.
func (repo *studentRepository) FindByEmail(ctx context.Context, email string) (*entity.Student, error) {
	var studentM model.StudentModel
	if err := repo.db.WithContext(ctx).First(&studentM, "email = ?", strings.ToLower(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStudentNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toStudentDomain(&studentM), nil
}

// --- Mapper Functions ---

func toStudentDomain(data *model.StudentModel) *entity.Student {
	if data == nil {
		return nil
	}

	return &entity.Student{
		ID:         data.ID,
		StudentID:  data.StudentID,
		Name:       data.Name,
		Email:      data.Email,
		Department: data.Department,
		Year:       data.Year,
		CreatedAt:  data.CreatedAt,
	}
}
