// Package model contains the GORM table mappings for the persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type UserModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email         string    `gorm:"type:varchar(255);unique;not null"`
	Name          string    `gorm:"type:varchar(100);not null"`
	PasswordHash  string    `gorm:"type:varchar(255);not null"`
	Bio           string    `gorm:"type:text"`
	PortfolioLink string    `gorm:"type:varchar(512)"`
	LinkedinLink  string    `gorm:"type:varchar(512)"`
	GithubLink    string    `gorm:"type:varchar(512)"`
	LeetcodeLink  string    `gorm:"type:varchar(512)"`
	ProfilePhoto  string    `gorm:"type:text"`

	// RefreshTokenHash holds the sha256 hex of the single active refresh
	// token; NULL means logged out everywhere.
	RefreshTokenHash *string `gorm:"type:char(64)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
