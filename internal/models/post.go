package models

import (
	"time"
)

// Post represents a published or draft article.
type Post struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Title      string `gorm:"not null" json:"title"`
	Slug       string `gorm:"uniqueIndex;not null" json:"slug"`
	Content    string `gorm:"type:text;not null" json:"content"`
	Excerpt    string `gorm:"size:300" json:"excerpt"`
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	User       User   `gorm:"foreignKey:UserID" json:"user"`
	CategoryID *uint  `gorm:"index" json:"category_id,omitempty"`
	// No FK constraint: deleting a category leaves the reference dangling
	// and the post renders as uncategorized.
	Category      *Category `gorm:"foreignKey:CategoryID;constraint:-" json:"category,omitempty"`
	Tags          []string  `gorm:"serializer:json" json:"tags"`
	FeaturedImage string    `json:"featured_image"`
	Published     bool      `gorm:"default:false" json:"published"`
	// Views increments on every successful fetch by slug; there is no
	// per-viewer dedup, so repeated fetches inflate it monotonically.
	Views int `gorm:"default:0" json:"views"`
	// LikesCount is not persisted; derived from post_likes at query time.
	LikesCount int `gorm:"->" json:"likes_count"`
	// Liked indicates whether the requesting user liked this post (computed).
	Liked     bool      `gorm:"->" json:"liked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostLike records a user's like on a post. The (post, user) pair is unique;
// unliking removes the row, so the like set carries no toggle history.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
