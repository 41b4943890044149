package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gamerstore/backend/internal/domain"
	"github.com/gamerstore/backend/internal/storage"
)

// maxImageSize caps uploads at 5 MiB.
const maxImageSize = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageHandler stores uploaded product images.
type ImageHandler struct {
	store  storage.Provider
	logger zerolog.Logger
}

// NewImageHandler creates a new ImageHandler instance.
func NewImageHandler(store storage.Provider, logger zerolog.Logger) *ImageHandler {
	return &ImageHandler{store: store, logger: logger}
}

// Upload handles POST /api/images (admin, multipart). The stored key is a
// fresh UUID with the extension derived from the declared content type, so
// client-supplied filenames never reach the filesystem.
func (h *ImageHandler) Upload(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return respondError(c, h.logger, domain.Invalid("image.upload", "image file is required"))
	}
	if file.Size > maxImageSize {
		return respondError(c, h.logger, domain.Invalid("image.upload", "image exceeds the 5MB limit"))
	}

	contentType := file.Header.Get("Content-Type")
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		ext = strings.ToLower(filepath.Ext(file.Filename))
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" && ext != ".gif" {
			return respondError(c, h.logger, domain.Invalid("image.upload", "unsupported image type"))
		}
	}

	src, err := file.Open()
	if err != nil {
		return respondError(c, h.logger, domain.Internal(err, "image.upload", "failed to read upload"))
	}
	defer src.Close()

	key := uuid.New().String() + ext
	url, err := h.store.Put(c.Request().Context(), key, src, contentType)
	if err != nil {
		return respondError(c, h.logger, domain.Internal(err, "image.upload", "failed to store image"))
	}

	h.logger.Info().Str("key", key).Int64("size", file.Size).Msg("image uploaded")

	return c.JSON(http.StatusCreated, map[string]string{"url": url})
}
