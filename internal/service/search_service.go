package service

import (
	"context"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type SearchService struct {
	searchRepo   repository.SearchRepository
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
}

type SearchInput struct {
	Query        string
	Types        []string
	CategorySlug string
	Author       string
	DateFrom     *time.Time
	DateTo       *time.Time
	SortBy       string
	Limit        int
	Offset       int
}

// SearchResults bundles the per-type hits of a combined search.
type SearchResults struct {
	Posts         []*models.Post    `json:"posts"`
	PostsTotal    int64             `json:"posts_total"`
	Users         []models.User     `json:"users"`
	Comments      []*models.Comment `json:"comments"`
	CommentsTotal int64             `json:"comments_total"`
}

func NewSearchService(
	searchRepo repository.SearchRepository,
	userRepo repository.UserRepository,
	categoryRepo repository.CategoryRepository,
) *SearchService {
	return &SearchService{
		searchRepo:   searchRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
	}
}

func wantsType(types []string, t string) bool {
	if len(types) == 0 {
		return true
	}
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}

// Search runs the query against every requested result type. An empty Types
// slice means all of them.
func (s *SearchService) Search(ctx context.Context, in SearchInput) (*SearchResults, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}

	results := &SearchResults{
		Posts:    []*models.Post{},
		Users:    []models.User{},
		Comments: []*models.Comment{},
	}

	if wantsType(in.Types, "posts") {
		opts := repository.PostSearchOptions{
			Query:    query,
			DateFrom: in.DateFrom,
			DateTo:   in.DateTo,
			SortBy:   in.SortBy,
			Limit:    in.Limit,
			Offset:   in.Offset,
		}
		if in.CategorySlug != "" {
			category, err := s.categoryRepo.GetBySlug(ctx, in.CategorySlug)
			if err != nil {
				return nil, err
			}
			opts.CategoryID = &category.ID
		}
		if in.Author != "" {
			author, err := s.userRepo.GetByUsername(ctx, in.Author)
			if err != nil {
				return nil, err
			}
			if author == nil {
				return nil, models.NewNotFoundError("User", in.Author)
			}
			opts.AuthorID = &author.ID
		}

		posts, total, err := s.searchRepo.SearchPosts(ctx, opts)
		if err != nil {
			return nil, err
		}
		results.Posts = posts
		results.PostsTotal = total
	}

	if wantsType(in.Types, "users") {
		users, err := s.userRepo.SearchByUsername(ctx, query, in.Limit, in.Offset)
		if err != nil {
			return nil, err
		}
		results.Users = users
	}

	if wantsType(in.Types, "comments") {
		comments, total, err := s.searchRepo.SearchComments(ctx, query, in.DateFrom, in.DateTo, in.Limit, in.Offset)
		if err != nil {
			return nil, err
		}
		results.Comments = comments
		results.CommentsTotal = total
	}

	return results, nil
}

// Suggest returns typeahead suggestions for a prefix: post titles first,
// then matching category names.
func (s *SearchService) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []string{}, nil
	}
	if limit <= 0 || limit > 10 {
		limit = 5
	}

	suggestions, err := s.searchRepo.SuggestTitles(ctx, prefix, limit)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(prefix)
	for _, cat := range categories {
		if len(suggestions) >= limit {
			break
		}
		if strings.HasPrefix(strings.ToLower(cat.Name), lower) {
			suggestions = append(suggestions, cat.Name)
		}
	}

	return suggestions, nil
}
