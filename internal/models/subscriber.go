package models

import (
	"time"
)

// Subscriber is a newsletter signup. Stored as a table rather than the
// process-wide list the feature started with, so restarts keep the list.
type Subscriber struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
