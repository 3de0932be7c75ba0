package entity

import (
	"time"

	"github.com/google/uuid"
)

// MetaNotAvailable is the placeholder the roster import writes when a
// department or year is missing.
const MetaNotAvailable = "Not available"

// Student is one row of the institution's roster: the allow-list that gates
// signup. Populated by a separate import process, read-only here.
type Student struct {
	ID         uuid.UUID
	StudentID  string
	Name       string
	Email      string // Unique, lowercased.
	Department string
	Year       string
	CreatedAt  time.Time
}
