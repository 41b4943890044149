package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gamerstore/backend/internal/domain"
)

// validationResponse is the body for field-level validation failures.
type validationResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// errorResponse is the body for business-rule failures.
type errorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

// statusForCode maps domain error codes to HTTP status codes.
func statusForCode(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.EPAYMENT:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders a domain error in one of three shapes: a field map for
// validation failures, an error+status pair for business-rule failures, and a
// generic message for anything unexpected. Internal detail is logged, never
// returned to the client.
func respondError(c echo.Context, logger zerolog.Logger, err error) error {
	if fields := domain.GetValidationFields(err); fields != nil {
		return c.JSON(http.StatusUnprocessableEntity, validationResponse{
			Status:  "error",
			Message: "Validation failed",
			Errors:  fields,
		})
	}

	code := domain.ErrorCode(err)
	if code == domain.EINTERNAL {
		logger.Error().Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Msg("internal error")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}

	return c.JSON(statusForCode(code), errorResponse{
		Error:  domain.ErrorMessage(err),
		Status: "error",
	})
}

// RequestValidator adapts go-playground/validator to echo's Validator
// interface, converting tag failures into the field-map error shape.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates a request validator for echo.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *RequestValidator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return domain.Internal(err, "http.validate", "invalid validation target")
	}

	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = messageForTag(fe)
		}
	}
	return &domain.ValidationError{Op: "http.validate", Fields: fields}
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "uuid":
		return "must be a valid id"
	default:
		return "is invalid"
	}
}
