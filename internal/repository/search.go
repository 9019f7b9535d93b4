package repository

import (
	"context"
	"strings"
	"time"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PostSearchOptions carries the advanced search filters for posts.
type PostSearchOptions struct {
	Query      string
	CategoryID *uint
	AuthorID   *uint
	DateFrom   *time.Time
	DateTo     *time.Time
	SortBy     string
	Limit      int
	Offset     int
}

// SearchRepository runs the substring queries behind the combined search
// endpoint.
type SearchRepository interface {
	SearchPosts(ctx context.Context, opts PostSearchOptions) ([]*models.Post, int64, error)
	SearchComments(ctx context.Context, query string, dateFrom, dateTo *time.Time, limit, offset int) ([]*models.Comment, int64, error)
	SuggestTitles(ctx context.Context, prefix string, limit int) ([]string, error)
}

type searchRepository struct {
	db *gorm.DB
}

// NewSearchRepository creates a new search repository.
func NewSearchRepository(db *gorm.DB) SearchRepository {
	return &searchRepository{db: db}
}

func (r *searchRepository) SearchPosts(ctx context.Context, opts PostSearchOptions) ([]*models.Post, int64, error) {
	applyFilter := func(db *gorm.DB) *gorm.DB {
		like := "%" + strings.ToLower(opts.Query) + "%"
		db = db.Where(
			"LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(excerpt) LIKE ?",
			like, like, like,
		)
		if opts.CategoryID != nil {
			db = db.Where("category_id = ?", *opts.CategoryID)
		}
		if opts.AuthorID != nil {
			db = db.Where("user_id = ?", *opts.AuthorID)
		}
		if opts.DateFrom != nil {
			db = db.Where("posts.created_at >= ?", *opts.DateFrom)
		}
		if opts.DateTo != nil {
			db = db.Where("posts.created_at <= ?", *opts.DateTo)
		}
		return db
	}

	order := "created_at DESC"
	switch opts.SortBy {
	case "oldest":
		order = "created_at ASC"
	case "popular", "trending":
		order = "views DESC, created_at DESC"
	}

	var posts []*models.Post
	err := applyFilter(r.db.WithContext(ctx)).
		Preload("User").
		Preload("Category").
		Order(order).
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var total int64
	if err := applyFilter(r.db.WithContext(ctx).Model(&models.Post{})).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	return posts, total, nil
}

func (r *searchRepository) SearchComments(
	ctx context.Context,
	query string,
	dateFrom, dateTo *time.Time,
	limit, offset int,
) ([]*models.Comment, int64, error) {
	applyFilter := func(db *gorm.DB) *gorm.DB {
		like := "%" + strings.ToLower(query) + "%"
		db = db.Where("LOWER(content) LIKE ? AND is_deleted = ?", like, false)
		if dateFrom != nil {
			db = db.Where("comments.created_at >= ?", *dateFrom)
		}
		if dateTo != nil {
			db = db.Where("comments.created_at <= ?", *dateTo)
		}
		return db
	}

	var comments []*models.Comment
	err := applyFilter(r.db.WithContext(ctx)).
		Preload("User").
		Preload("Post", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "slug", "user_id")
		}).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var total int64
	if err := applyFilter(r.db.WithContext(ctx).Model(&models.Comment{})).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	return comments, total, nil
}

// SuggestTitles returns post titles matching a prefix, for typeahead.
func (r *searchRepository) SuggestTitles(ctx context.Context, prefix string, limit int) ([]string, error) {
	var titles []string
	like := strings.ToLower(prefix) + "%"
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("LOWER(title) LIKE ? AND published = ?", like, true).
		Order("views DESC").
		Limit(limit).
		Pluck("title", &titles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return titles, nil
}
