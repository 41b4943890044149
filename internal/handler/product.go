package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gamerstore/backend/internal/domain"
)

// ProductHandler exposes the public catalog plus admin CRUD.
type ProductHandler struct {
	products domain.ProductService
	logger   zerolog.Logger
}

// NewProductHandler creates a new ProductHandler instance.
func NewProductHandler(products domain.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

type productResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int32           `json:"stock"`
	CategoryID  *string         `json:"categoryId"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toProductResponse(p *domain.Product) productResponse {
	resp := productResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
	}
	if p.CategoryID.Valid {
		id := p.CategoryID.UUID.String()
		resp.CategoryID = &id
	}
	return resp
}

func toProductResponses(products []domain.Product) []productResponse {
	out := make([]productResponse, len(products))
	for i := range products {
		out[i] = toProductResponse(&products[i])
	}
	return out
}

type createProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int32           `json:"stock" validate:"gte=0"`
	CategoryID  *string         `json:"categoryId"`
	ImageURL    string          `json:"imageUrl"`
}

type updateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int32           `json:"stock"`
	CategoryID  *string          `json:"categoryId"`
	ImageURL    *string          `json:"imageUrl"`
	Active      *bool            `json:"active"`
}

// List handles GET /api/products.
func (h *ProductHandler) List(c echo.Context) error {
	filter := domain.ProductFilter{
		Name: c.QueryParam("name"),
		Sort: domain.ProductSort(c.QueryParam("sort")),
	}
	if raw := c.QueryParam("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return respondError(c, h.logger, domain.Invalid("product.list", "invalid category id"))
		}
		filter.CategoryID = &id
	}
	if c.QueryParam("inStock") == "true" {
		inStock := true
		filter.InStock = &inStock
	}
	if raw := c.QueryParam("active"); raw != "" {
		active := raw == "true"
		filter.Active = &active
	}

	products, err := h.products.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, toProductResponses(products))
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, h.logger, domain.Invalid("product.get", "invalid product id"))
	}

	product, err := h.products.GetProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, toProductResponse(product))
}

// Create handles POST /api/products (admin).
func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.logger, domain.Invalid("product.create", "malformed request body"))
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.logger, err)
	}

	params := domain.CreateProductParams{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}
	if req.CategoryID != nil {
		id, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return respondError(c, h.logger, domain.Invalid("product.create", "invalid category id"))
		}
		params.CategoryID = &id
	}

	product, err := h.products.CreateProduct(c.Request().Context(), params)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, toProductResponse(product))
}

// Update handles PUT /api/products/:id (admin). Absent fields are unchanged.
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, h.logger, domain.Invalid("product.update", "invalid product id"))
	}

	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.logger, domain.Invalid("product.update", "malformed request body"))
	}

	params := domain.UpdateProductParams{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Active:      req.Active,
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return respondError(c, h.logger, domain.Invalid("product.update", "invalid category id"))
		}
		params.CategoryID = &categoryID
	}

	product, err := h.products.UpdateProduct(c.Request().Context(), id, params)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, toProductResponse(product))
}

// Delete handles DELETE /api/products/:id (admin).
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, h.logger, domain.Invalid("product.delete", "invalid product id"))
	}

	if err := h.products.DeleteProduct(c.Request().Context(), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.NoContent(http.StatusNoContent)
}
