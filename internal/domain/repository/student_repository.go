package repository

import (
	"context"
	"errors"

	"campusconnect/internal/domain/entity"
)

// ErrStudentNotFound is returned when no roster record exists for an email.
var ErrStudentNotFound = errors.New("student not found")

// StudentRepository reads the institution's roster allow-list. The roster is
// populated by a separate import process; this service only queries it.
type StudentRepository interface {
	// FindByEmail retrieves a roster record by lowercased email.
	FindByEmail(ctx context.Context, email string) (*entity.Student, error)
}
