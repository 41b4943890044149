package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamerstore/backend/internal/domain"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewRequestValidator()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRespondError(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("validation errors render the field map", func(t *testing.T) {
		c, rec := newTestContext(t)

		err := &domain.ValidationError{
			Op:     "auth.register",
			Fields: map[string]string{"email": "a valid email is required"},
		}
		require.NoError(t, respondError(c, logger, err))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var body validationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "error", body.Status)
		assert.Equal(t, "a valid email is required", body.Errors["email"])
	})

	t.Run("business errors carry their message and status", func(t *testing.T) {
		tests := []struct {
			err  error
			code int
		}{
			{domain.ErrProductNotFound, http.StatusNotFound},
			{domain.ErrInsufficientStock, http.StatusBadRequest},
			{domain.ErrDuplicateUser, http.StatusConflict},
			{domain.ErrInvalidCredentials, http.StatusUnauthorized},
			{domain.Forbidden("order.get", "not yours"), http.StatusForbidden},
			{domain.Errorf(domain.EPAYMENT, "payment", "gateway unreachable"), http.StatusPaymentRequired},
		}
		for _, tt := range tests {
			c, rec := newTestContext(t)
			require.NoError(t, respondError(c, logger, tt.err))
			assert.Equal(t, tt.code, rec.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, domain.ErrorMessage(tt.err), body.Error)
		}
	})

	t.Run("internal errors hide their detail", func(t *testing.T) {
		c, rec := newTestContext(t)

		err := domain.Internal(errors.New("pq: connection refused"), "order.create", "failed to create order")
		require.NoError(t, respondError(c, logger, err))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
		assert.Contains(t, rec.Body.String(), "internal server error")
	})
}

func TestRequestValidator(t *testing.T) {
	v := NewRequestValidator()

	type payload struct {
		Email    string `json:"email" validate:"required,email"`
		Quantity int32  `json:"quantity" validate:"gt=0"`
	}

	err := v.Validate(&payload{Email: "nope", Quantity: 0})
	require.Error(t, err)

	fields := domain.GetValidationFields(err)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "quantity")

	require.NoError(t, v.Validate(&payload{Email: "a@example.com", Quantity: 1}))
}
