package model

import (
	"time"

	"github.com/google/uuid"
)

// StudentModel mirrors the 'students' roster table, written by the import
// process and read-only for this service.
type StudentModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	StudentID  string    `gorm:"type:varchar(50);index"`
	Name       string    `gorm:"type:varchar(100);not null"`
	Email      string    `gorm:"type:varchar(255);unique;not null"`
	Department string    `gorm:"type:varchar(100)"`
	Year       string    `gorm:"type:varchar(10)"`
	CreatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (StudentModel) TableName() string {
	return "students"
}
