// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Comment sort orders accepted by ListByPost.
const (
	CommentSortNewest  = "newest"
	CommentSortOldest  = "oldest"
	CommentSortPopular = "popular"
)

// visibleCommentFilter is the predicate shared by listing and counting:
// top-level, not soft-deleted, not hidden by moderation.
const visibleCommentFilter = "post_id = ? AND parent_id IS NULL AND is_deleted = ? AND is_approved = ?"

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID uint, limit, offset int, sort string) ([]*models.Comment, int64, error)
	ListByAuthor(ctx context.Context, userID uint, limit, offset int) ([]*models.Comment, int64, error)
	CountByAuthor(ctx context.Context, userID uint) (int64, error)
	AdjustRepliesCount(ctx context.Context, id uint, delta int) error
	IsLiked(ctx context.Context, commentID, userID uint) (bool, error)
	AddLike(ctx context.Context, commentID, userID uint) error
	RemoveLike(ctx context.Context, commentID, userID uint) error
	CountLikes(ctx context.Context, commentID uint) (int64, error)
	AddReport(ctx context.Context, report *models.CommentReport) error
	CountDistinctReporters(ctx context.Context, commentID uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) ListByPost(
	ctx context.Context,
	postID uint,
	limit, offset int,
	sort string,
) ([]*models.Comment, int64, error) {
	var order string
	switch sort {
	case CommentSortOldest:
		order = "created_at ASC"
	case CommentSortPopular:
		order = "likes_count DESC, created_at DESC"
	default:
		order = "created_at DESC"
	}

	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ? AND is_approved = ?", false, true).
				Order("created_at ASC")
		}).
		Preload("Replies.User").
		Where(visibleCommentFilter, postID, false, true).
		Order(order).
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	// Separate count query over the same predicate; not transactionally
	// consistent with the page fetch under concurrent writes.
	var total int64
	err = r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where(visibleCommentFilter, postID, false, true).
		Count(&total).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	return comments, total, nil
}

func (r *commentRepository) ListByAuthor(
	ctx context.Context,
	userID uint,
	limit, offset int,
) ([]*models.Comment, int64, error) {
	filter := "user_id = ? AND is_deleted = ?"

	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Post", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "slug", "user_id")
		}).
		Where(filter, userID, false).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where(filter, userID, false).
		Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	return comments, total, nil
}

// CountByAuthor counts a user's comments that have not been soft-deleted.
func (r *commentRepository) CountByAuthor(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// AdjustRepliesCount applies an explicit delta to the denormalized reply
// counter. Read-modify-write without locking, as elsewhere.
func (r *commentRepository) AdjustRepliesCount(ctx context.Context, id uint, delta int) error {
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", id).
		Update("replies_count", gorm.Expr("replies_count + ?", delta)).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) IsLiked(ctx context.Context, commentID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CommentLike{}).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *commentRepository) AddLike(ctx context.Context, commentID, userID uint) error {
	like := models.CommentLike{CommentID: commentID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&like).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) RemoveLike(ctx context.Context, commentID, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&models.CommentLike{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) CountLikes(ctx context.Context, commentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CommentLike{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *commentRepository) AddReport(ctx context.Context, report *models.CommentReport) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) CountDistinctReporters(ctx context.Context, commentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CommentReport{}).
		Where("comment_id = ?", commentID).
		Distinct("reporter_id").
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
