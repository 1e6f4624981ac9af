// Package service contains the business logic of the application.
package service

import (
	"context"
	"errors"

	"ideahub/internal/models"
	"ideahub/internal/repository"

	"gorm.io/gorm"
)

// Viewer identifies the authenticated actor behind a read. A nil *Viewer
// means the request is anonymous.
type Viewer struct {
	UserID uint
	Admin  bool
}

// notFoundOrInternal translates a repository error into the API error
// taxonomy, keeping gorm out of handler code.
func notFoundOrInternal(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// resolveCategorySet loads the requested categories and fails NotFound on
// the first id that does not resolve.
func resolveCategorySet(ctx context.Context, categories repository.CategoryRepository, ids []uint) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	resolved, err := categories.GetByIDs(ctx, ids)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	found := make(map[uint]struct{}, len(resolved))
	for _, c := range resolved {
		found[c.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, models.NewNotFoundError("Category", id)
		}
	}
	return resolved, nil
}
