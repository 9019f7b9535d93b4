package models

import (
	"time"
)

// DeletedCommentPlaceholder replaces the content of a soft-deleted comment.
// The row is kept for threading and audit; only the text is destroyed.
const DeletedCommentPlaceholder = "[This comment has been deleted]"

// MaxCommentLength is the upper bound on comment content.
const MaxCommentLength = 1000

// ReportHideThreshold is the report count at which a comment is hidden.
// Crossing it clears IsApproved permanently; there is no unhide path.
const ReportHideThreshold = 5

// Comment represents a comment on a post. A nil ParentID marks a top-level
// comment; replies reference a parent comment on the same post.
type Comment struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	Content  string   `gorm:"size:1000;not null" json:"content"`
	UserID   uint     `gorm:"not null;index" json:"user_id"`
	User     User     `gorm:"foreignKey:UserID" json:"user"`
	PostID   uint     `gorm:"not null;index" json:"post_id"`
	Post     Post     `gorm:"foreignKey:PostID" json:"post,omitempty"`
	ParentID *uint    `gorm:"index" json:"parent_id"`
	Parent   *Comment `gorm:"foreignKey:ParentID" json:"-"`
	// LikesCount mirrors the number of comment_likes rows; recomputed from a
	// count query on every toggle.
	LikesCount int `gorm:"default:0" json:"likes_count"`
	// RepliesCount is maintained by explicit increments and decrements on
	// reply creation and soft-deletion. It is not recomputed from the child
	// rows, so a skipped mutation path lets it drift.
	RepliesCount int        `gorm:"default:0" json:"replies_count"`
	Replies      []Comment  `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
	IsEdited     bool       `gorm:"default:false" json:"is_edited"`
	EditedAt     *time.Time `json:"edited_at,omitempty"`
	IsDeleted    bool       `gorm:"default:false;index" json:"is_deleted"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	ReportCount  int        `gorm:"default:0" json:"report_count"`
	IsApproved   bool       `gorm:"default:true;index" json:"is_approved"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CommentLike is one entry of a comment's like set: the liking user plus the
// time of the like.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_user" json:"comment_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentReport records a single report against a comment. Rows are always
// written for audit; reporter uniqueness is only enforced when moderation
// dedup is enabled.
type CommentReport struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CommentID  uint      `gorm:"not null;index" json:"comment_id"`
	ReporterID uint      `gorm:"not null;index" json:"reporter_id"`
	CreatedAt  time.Time `json:"created_at"`
}
