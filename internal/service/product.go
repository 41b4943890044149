package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gamerstore/backend/internal/domain"
)

// productService implements domain.ProductService.
type productService struct {
	stores domain.Stores
	logger zerolog.Logger
}

// NewProductService creates a new ProductService instance.
func NewProductService(stores domain.Stores, logger zerolog.Logger) domain.ProductService {
	return &productService{
		stores: stores,
		logger: logger.With().Str("component", "product").Logger(),
	}
}

// ListProducts returns catalog entries matching the filter.
func (s *productService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return s.stores.Products().List(ctx, filter)
}

// GetProduct returns a single product by id.
func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.stores.Products().GetByID(ctx, id)
}

// CreateProduct creates a catalog entry. New products are active immediately.
func (s *productService) CreateProduct(ctx context.Context, params domain.CreateProductParams) (*domain.Product, error) {
	if err := validateProduct(params.Name, params.Price, params.Stock); err != nil {
		return nil, err
	}

	if params.CategoryID != nil {
		if _, err := s.stores.Categories().GetByID(ctx, *params.CategoryID); err != nil {
			return nil, err
		}
	}

	product := &domain.Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(params.Name),
		Description: params.Description,
		Price:       params.Price,
		Stock:       params.Stock,
		ImageURL:    params.ImageURL,
		Active:      true,
	}
	if params.CategoryID != nil {
		product.CategoryID = uuid.NullUUID{UUID: *params.CategoryID, Valid: true}
	}

	if err := s.stores.Products().Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("product_id", product.ID.String()).
		Str("name", product.Name).
		Msg("product created")

	return product, nil
}

// UpdateProduct applies a partial update. Nil fields are left unchanged.
func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, params domain.UpdateProductParams) (*domain.Product, error) {
	product, err := s.stores.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		product.Name = strings.TrimSpace(*params.Name)
	}
	if params.Description != nil {
		product.Description = *params.Description
	}
	if params.Price != nil {
		product.Price = *params.Price
	}
	if params.Stock != nil {
		product.Stock = *params.Stock
	}
	if params.CategoryID != nil {
		product.CategoryID = uuid.NullUUID{UUID: *params.CategoryID, Valid: true}
	}
	if params.ImageURL != nil {
		product.ImageURL = *params.ImageURL
	}
	if params.Active != nil {
		product.Active = *params.Active
	}

	if err := validateProduct(product.Name, product.Price, product.Stock); err != nil {
		return nil, err
	}

	if err := s.stores.Products().Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", product.ID.String()).Msg("product updated")

	return product, nil
}

// DeleteProduct removes a product that nothing references.
func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.stores.Products().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("product_id", id.String()).Msg("product deleted")
	return nil
}

func validateProduct(name string, price decimal.Decimal, stock int32) error {
	fields := make(map[string]string)
	if strings.TrimSpace(name) == "" {
		fields["name"] = "name is required"
	}
	if price.IsNegative() {
		fields["price"] = "price must not be negative"
	}
	if stock < 0 {
		fields["stock"] = "stock must not be negative"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Op: "product", Fields: fields}
	}
	return nil
}
