// Package board holds the forum structure the board subpackages refer to:
// boards contain categories, categories contain topics.
package board

import (
	"time"

	"github.com/google/uuid"
)

// Category is a board category with the time of its latest posting.
type Category struct {
	ID                   uuid.UUID
	BoardID              string
	Slug                 string
	Title                string
	LastPostingUpdatedAt *time.Time
}

// Topic is a thread within a category.
type Topic struct {
	ID            uuid.UUID
	CategoryID    uuid.UUID
	CreatorID     uuid.UUID
	Title         string
	CreatedAt     time.Time
	LastUpdatedAt time.Time
}
