package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Catalog-related domain errors.
var (
	ErrProductNotFound  = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrCategoryNotFound = &Error{Code: ENOTFOUND, Message: "Category not found"}
	ErrCategoryInUse    = &Error{Code: ECONFLICT, Message: "Category still has products assigned to it"}
	ErrProductInUse     = &Error{Code: ECONFLICT, Message: "Product is referenced by carts or orders"}
)

// Product is a catalog entry. Stock never goes negative: it is mutated only
// by admin edits and by checkout, both of which enforce the floor.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int32
	CategoryID  uuid.NullUUID
	ImageURL    string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category groups products. It does not own their lifecycle and cannot be
// deleted while any product references it.
type Category struct {
	ID   uuid.UUID
	Name string
}

// CategoryWithProducts pairs a category with its current products.
type CategoryWithProducts struct {
	Category Category
	Products []Product
}

// ProductSort names the supported catalog sort orders.
type ProductSort string

const (
	SortNone      ProductSort = ""
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortAlphaAsc  ProductSort = "alpha_asc"
	SortAlphaDesc ProductSort = "alpha_desc"
)

// ProductFilter narrows a catalog listing. Nil pointers mean "don't filter".
type ProductFilter struct {
	Name       string
	CategoryID *uuid.UUID
	InStock    *bool
	Active     *bool
	Sort       ProductSort
}

// CreateProductParams contains parameters for creating a product.
type CreateProductParams struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int32
	CategoryID  *uuid.UUID
	ImageURL    string
}

// UpdateProductParams contains a partial product update. Nil fields are
// left unchanged.
type UpdateProductParams struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int32
	CategoryID  *uuid.UUID
	ImageURL    *string
	Active      *bool
}

// ProductStore persists catalog records.
type ProductStore interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// GetByIDForUpdate loads a product under a row lock so concurrent
	// checkouts serialize their stock check against each other. Only
	// meaningful inside a transaction.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)

	List(ctx context.Context, filter ProductFilter) ([]Product, error)
	Update(ctx context.Context, product *Product) error

	// AdjustStock applies a signed delta to a product's stock. The store
	// rejects any adjustment that would take stock below zero.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int32) error

	// Delete removes a product. Fails with ErrProductInUse while cart or
	// order lines reference it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryStore persists categories.
type CategoryStore interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	List(ctx context.Context) ([]Category, error)

	// Delete removes a category. Fails with ErrCategoryInUse while products
	// reference it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductService provides business logic for catalog operations.
type ProductService interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	CreateProduct(ctx context.Context, params CreateProductParams) (*Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (*Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// CategoryService provides business logic for category operations.
type CategoryService interface {
	ListCategories(ctx context.Context) ([]CategoryWithProducts, error)
	CreateCategory(ctx context.Context, name string) (*Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}
