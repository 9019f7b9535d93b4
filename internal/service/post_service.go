package service

import (
	"context"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
)

const (
	maxTitleLen   = 200
	excerptLen    = 150
	maxContentLen = 50000
)

type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	isAdmin      func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	UserID        uint
	Title         string
	Content       string
	Excerpt       string
	CategoryID    *uint
	Tags          []string
	FeaturedImage string
	Published     bool
}

type UpdatePostInput struct {
	UserID        uint
	PostID        uint
	Title         string
	Content       string
	Excerpt       string
	CategoryID    *uint
	Tags          []string
	FeaturedImage string
	Published     *bool
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

type ListPostsInput struct {
	Limit         int
	Offset        int
	CurrentUserID uint
	CategorySlug  string
	Search        string
}

func NewPostService(
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		isAdmin:      isAdmin,
	}
}

func validatePostInput(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 200 characters)")
	}
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return models.NewValidationError("Content too long (max 50000 characters)")
	}
	return nil
}

// deriveExcerpt takes the leading run of content when no explicit excerpt is
// given.
func deriveExcerpt(excerpt, content string) string {
	if strings.TrimSpace(excerpt) != "" {
		return excerpt
	}
	if len(content) <= excerptLen {
		return content
	}
	return content[:excerptLen] + "..."
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validatePostInput(in.Title, in.Content); err != nil {
		return nil, err
	}

	slug := models.Slugify(in.Title)
	if slug == "" {
		return nil, models.NewValidationError("Title must contain at least one alphanumeric character")
	}
	exists, err := s.postRepo.ExistsBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewValidationError("A post with a similar title already exists")
	}

	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	post := &models.Post{
		Title:         in.Title,
		Slug:          slug,
		Content:       in.Content,
		Excerpt:       deriveExcerpt(in.Excerpt, in.Content),
		UserID:        in.UserID,
		CategoryID:    in.CategoryID,
		Tags:          in.Tags,
		FeaturedImage: in.FeaturedImage,
		Published:     in.Published,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	cache.InvalidatePostLists(ctx)

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, int64, error) {
	filter := repository.PostFilter{
		PublishedOnly: true,
		Search:        in.Search,
	}
	if in.CategorySlug != "" {
		category, err := s.categoryRepo.GetBySlug(ctx, in.CategorySlug)
		if err != nil {
			return nil, 0, err
		}
		filter.CategoryID = &category.ID
	}

	// First anonymous page is the hot path; serve it cache-aside.
	if in.CurrentUserID == 0 && in.Offset == 0 && in.CategorySlug == "" && in.Search == "" {
		var cached struct {
			Posts []*models.Post `json:"posts"`
			Total int64          `json:"total"`
		}
		err := cache.Aside(ctx, cache.PostsListKey, &cached, cache.ListTTL, func() error {
			var fetchErr error
			cached.Posts, cached.Total, fetchErr = s.postRepo.List(ctx, filter, in.Limit, in.Offset, 0)
			return fetchErr
		})
		if err != nil {
			return nil, 0, err
		}
		return cached.Posts, cached.Total, nil
	}

	return s.postRepo.List(ctx, filter, in.Limit, in.Offset, in.CurrentUserID)
}

// GetPostBySlug returns the post and records a view. Unpublished posts are
// visible only to their author or an admin; everyone else gets a not found
// rather than a forbidden, so drafts do not leak their existence.
func (s *PostService) GetPostBySlug(ctx context.Context, slug string, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug, currentUserID)
	if err != nil {
		return nil, err
	}

	if !post.Published && post.UserID != currentUserID {
		admin := false
		if s.isAdmin != nil && currentUserID != 0 {
			admin, err = s.isAdmin(ctx, currentUserID)
			if err != nil {
				return nil, err
			}
		}
		if !admin {
			return nil, models.NewNotFoundError("Post", slug)
		}
	}

	// Every successful fetch counts a view, author included.
	if err := s.postRepo.IncrementViews(ctx, post.ID); err != nil {
		return nil, err
	}
	post.Views++
	observability.PostViewsTotal.Inc()

	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.requireOwnerOrAdmin(ctx, post.UserID, in.UserID, "You can only update your own posts"); err != nil {
		return nil, err
	}

	if in.Title != "" && in.Title != post.Title {
		if len(in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 200 characters)")
		}
		slug := models.Slugify(in.Title)
		if slug == "" {
			return nil, models.NewValidationError("Title must contain at least one alphanumeric character")
		}
		if slug != post.Slug {
			exists, err := s.postRepo.ExistsBySlug(ctx, slug)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, models.NewValidationError("A post with a similar title already exists")
			}
		}
		post.Title = in.Title
		post.Slug = slug
	}
	if in.Content != "" {
		if len(in.Content) > maxContentLen {
			return nil, models.NewValidationError("Content too long (max 50000 characters)")
		}
		post.Content = in.Content
	}
	if in.Excerpt != "" {
		post.Excerpt = in.Excerpt
	}
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		post.CategoryID = in.CategoryID
	}
	if in.Tags != nil {
		post.Tags = in.Tags
	}
	if in.FeaturedImage != "" {
		post.FeaturedImage = in.FeaturedImage
	}
	if in.Published != nil {
		post.Published = *in.Published
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	cache.InvalidatePostLists(ctx)

	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}

	if err := s.requireOwnerOrAdmin(ctx, post.UserID, in.UserID, "You can only delete your own posts"); err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, in.PostID); err != nil {
		return err
	}

	cache.InvalidatePostLists(ctx)
	return nil
}

// ToggleLike flips the like and returns the post with its recomputed count.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return nil, err
	}

	isLiked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if isLiked {
		err = s.postRepo.Unlike(ctx, userID, postID)
	} else {
		err = s.postRepo.Like(ctx, userID, postID)
	}
	if err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, postID, userID)
}

func (s *PostService) requireOwnerOrAdmin(ctx context.Context, ownerID, userID uint, msg string) error {
	if ownerID == userID {
		return nil
	}
	if s.isAdmin == nil {
		return models.NewForbiddenError(msg)
	}
	admin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewForbiddenError(msg)
	}
	return nil
}
