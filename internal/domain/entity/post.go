package entity

import (
	"time"

	"github.com/google/uuid"
)

// Post is one feed entry. Likes and SharedWith hold user IDs; Comments are
// embedded and ordered by creation time.
type Post struct {
	ID         uuid.UUID
	AuthorID   uuid.UUID
	Author     *User
	Content    string
	Image      string // Optional data URL; bounded by the delivery layer.
	Likes      []uuid.UUID
	Comments   []Comment
	SharedWith []uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Comment is a single comment on a post.
type Comment struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	UserID    uuid.UUID
	User      *User
	Text      string
	CreatedAt time.Time
}

// SharesCount is derived from the share list.
func (p *Post) SharesCount() int {
	return len(p.SharedWith)
}

// IsLikedBy reports whether the given user currently likes the post.
func (p *Post) IsLikedBy(userID uuid.UUID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}

	return false
}

// IsSharedWith reports whether the post was already shared with the user.
func (p *Post) IsSharedWith(userID uuid.UUID) bool {
	for _, id := range p.SharedWith {
		if id == userID {
			return true
		}
	}

	return false
}
