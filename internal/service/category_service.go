package service

import (
	"context"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

type CreateCategoryInput struct {
	Name        string
	Description string
	Color       string
}

type UpdateCategoryInput struct {
	CategoryID  uint
	Name        string
	Description *string
	Color       string
}

func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := cache.Aside(ctx, cache.CategoriesListKey, &categories, cache.CategoriesTTL, func() error {
		var fetchErr error
		categories, fetchErr = s.categoryRepo.List(ctx)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	return s.categoryRepo.GetBySlug(ctx, slug)
}

func (s *CategoryService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, models.NewValidationError("Name is required")
	}

	slug := models.Slugify(in.Name)
	if slug == "" {
		return nil, models.NewValidationError("Name must contain at least one alphanumeric character")
	}
	exists, err := s.categoryRepo.ExistsBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewValidationError("A category with a similar name already exists")
	}

	color := in.Color
	if color == "" {
		color = models.DefaultCategoryColor
	}

	category := &models.Category{
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		Color:       color,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	cache.InvalidateCategories(ctx)
	return category, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, in UpdateCategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" && in.Name != category.Name {
		slug := models.Slugify(in.Name)
		if slug == "" {
			return nil, models.NewValidationError("Name must contain at least one alphanumeric character")
		}
		if slug != category.Slug {
			exists, err := s.categoryRepo.ExistsBySlug(ctx, slug)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, models.NewValidationError("A category with a similar name already exists")
			}
		}
		category.Name = in.Name
		category.Slug = slug
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if in.Color != "" {
		category.Color = in.Color
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	cache.InvalidateCategories(ctx)
	return category, nil
}

// DeleteCategory removes the category without touching its posts; their
// category reference is left dangling and they render as uncategorized.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateCategories(ctx)
	return nil
}
