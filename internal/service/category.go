package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gamerstore/backend/internal/domain"
)

// categoryService implements domain.CategoryService.
type categoryService struct {
	stores domain.Stores
	logger zerolog.Logger
}

// NewCategoryService creates a new CategoryService instance.
func NewCategoryService(stores domain.Stores, logger zerolog.Logger) domain.CategoryService {
	return &categoryService{
		stores: stores,
		logger: logger.With().Str("component", "category").Logger(),
	}
}

// ListCategories returns every category with its current products. Only
// active products show up under a category.
func (s *categoryService) ListCategories(ctx context.Context) ([]domain.CategoryWithProducts, error) {
	categories, err := s.stores.Categories().List(ctx)
	if err != nil {
		return nil, err
	}

	active := true
	out := make([]domain.CategoryWithProducts, 0, len(categories))
	for _, category := range categories {
		id := category.ID
		products, err := s.stores.Products().List(ctx, domain.ProductFilter{
			CategoryID: &id,
			Active:     &active,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, domain.CategoryWithProducts{
			Category: category,
			Products: products,
		})
	}
	return out, nil
}

// CreateCategory creates a named category.
func (s *categoryService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("category", "name", "name is required")
	}

	category := &domain.Category{
		ID:   uuid.New(),
		Name: name,
	}
	if err := s.stores.Categories().Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info().Str("category_id", category.ID.String()).Str("name", name).Msg("category created")

	return category, nil
}

// DeleteCategory removes an empty category.
func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.stores.Categories().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("category_id", id.String()).Msg("category deleted")
	return nil
}
