package model

import (
	"time"

	"github.com/google/uuid"
)

// PostModel mirrors the 'posts' table.
type PostModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index"`
	Content  string    `gorm:"type:text;not null"`
	Image    string    `gorm:"type:text"`

	Author   *UserModel       `gorm:"foreignKey:AuthorID"`
	Likes    []PostLikeModel  `gorm:"foreignKey:PostID"`
	Comments []CommentModel   `gorm:"foreignKey:PostID"`
	Shares   []PostShareModel `gorm:"foreignKey:PostID"`

	CreatedAt time.Time `gorm:"index:idx_posts_created_at,sort:desc"`
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (PostModel) TableName() string {
	return "posts"
}

// PostLikeModel mirrors the 'post_likes' join table; one row per (post, user).
type PostLikeModel struct {
	PostID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (PostLikeModel) TableName() string {
	return "post_likes"
}

// CommentModel mirrors the 'post_comments' table.
type CommentModel struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	PostID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID uuid.UUID `gorm:"type:uuid;not null"`
	Text   string    `gorm:"type:varchar(1000);not null"`

	User *UserModel `gorm:"foreignKey:UserID"`

	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CommentModel) TableName() string {
	return "post_comments"
}

// PostShareModel mirrors the 'post_shares' join table; one row per (post, user).
type PostShareModel struct {
	PostID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (PostShareModel) TableName() string {
	return "post_shares"
}
