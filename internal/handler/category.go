package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gamerstore/backend/internal/domain"
)

// CategoryHandler exposes category listing and admin management.
type CategoryHandler struct {
	categories domain.CategoryService
	logger     zerolog.Logger
}

// NewCategoryHandler creates a new CategoryHandler instance.
func NewCategoryHandler(categories domain.CategoryService, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

type categoryResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Products []productResponse `json:"products"`
}

type createCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// List handles GET /api/categories.
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.categories.ListCategories(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	out := make([]categoryResponse, len(categories))
	for i, cat := range categories {
		out[i] = categoryResponse{
			ID:       cat.Category.ID.String(),
			Name:     cat.Category.Name,
			Products: toProductResponses(cat.Products),
		}
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /api/categories (admin).
func (h *CategoryHandler) Create(c echo.Context) error {
	var req createCategoryRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.logger, domain.Invalid("category.create", "malformed request body"))
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.logger, err)
	}

	category, err := h.categories.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, categoryResponse{
		ID:       category.ID.String(),
		Name:     category.Name,
		Products: []productResponse{},
	})
}

// Delete handles DELETE /api/categories/:id (admin).
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, h.logger, domain.Invalid("category.delete", "invalid category id"))
	}

	if err := h.categories.DeleteCategory(c.Request().Context(), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.NoContent(http.StatusNoContent)
}
