package service

import (
	"context"
	"fmt"
	"strings"

	"ideahub/internal/models"
	"ideahub/internal/repository"
)

// CategoryService manages the category registry. System categories are
// seeded at startup and can neither be renamed nor deleted.
type CategoryService interface {
	Create(ctx context.Context, viewer *Viewer, name, description string) (*models.Category, error)
	Get(ctx context.Context, id uint) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, viewer *Viewer, id uint, name, description *string) (*models.Category, error)
	Delete(ctx context.Context, viewer *Viewer, id uint) error
}

type categoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categories repository.CategoryRepository) CategoryService {
	return &categoryService{categories: categories}
}

func requireAdmin(viewer *Viewer) error {
	if viewer == nil || !viewer.Admin {
		return models.NewForbiddenError("managing categories requires the admin authority")
	}
	return nil
}

func (s *categoryService) Create(ctx context.Context, viewer *Viewer, name, description string) (*models.Category, error) {
	if err := requireAdmin(viewer); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("category name is required")
	}
	exists, err := s.categories.ExistsByName(ctx, name)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if exists {
		return nil, models.NewValidationError(fmt.Sprintf("category %q already exists", name))
	}
	category := &models.Category{Name: name, Description: description}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, models.NewInternalError(err)
	}
	return category, nil
}

func (s *categoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "Category", id)
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}

func (s *categoryService) Update(ctx context.Context, viewer *Viewer, id uint, name, description *string) (*models.Category, error) {
	if err := requireAdmin(viewer); err != nil {
		return nil, err
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "Category", id)
	}
	if name != nil && *name != category.Name {
		if category.SystemCategory {
			return nil, models.NewValidationError("system categories cannot be renamed")
		}
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, models.NewValidationError("category name is required")
		}
		exists, err := s.categories.ExistsByName(ctx, trimmed)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		if exists {
			return nil, models.NewValidationError(fmt.Sprintf("category %q already exists", trimmed))
		}
		category.Name = trimmed
	}
	if description != nil {
		category.Description = *description
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, models.NewInternalError(err)
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, viewer *Viewer, id uint) error {
	if err := requireAdmin(viewer); err != nil {
		return err
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return notFoundOrInternal(err, "Category", id)
	}
	if category.SystemCategory {
		return models.NewValidationError("system categories cannot be deleted")
	}
	if err := s.categories.Delete(ctx, category.ID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
