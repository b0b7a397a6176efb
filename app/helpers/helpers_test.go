package helpers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"github.com/Rakhulsr/go-smartmart/app/utils/sessions"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discountForm struct {
	Name     string           `json:"name" validate:"required,max=10"`
	Discount *decimal.Decimal `json:"discount_percentage" validate:"omitempty,gte=0,lte=100"`
}

func TestValidateStructUsesJSONNamesAndDecimals(t *testing.T) {
	v := NewValidator()

	zero := decimal.Zero
	assert.NoError(t, ValidateStruct(v, discountForm{Name: "Bebidas", Discount: &zero}))
	assert.NoError(t, ValidateStruct(v, discountForm{Name: "Bebidas"}))

	over := decimal.RequireFromString("100.5")
	err := ValidateStruct(v, discountForm{Discount: &over})
	require.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	details := apperrors.Details(err)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must be less than or equal to 100", details["discount_percentage"])
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, PasswordCompare(hash, []byte("secret123")))
	assert.False(t, PasswordCompare(hash, []byte("secret124")))
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.InvalidArgument("x"), http.StatusBadRequest},
		{apperrors.NotFound("x"), http.StatusNotFound},
		{apperrors.Unauthorized("x"), http.StatusUnauthorized},
		{apperrors.Forbidden("x"), http.StatusForbidden},
		{apperrors.Storage(errors.New("disk")), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusCode(tt.err), tt.err.Error())
	}
}

func TestNewErrorBodyHidesInternalErrors(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/products", nil)

	status, body := NewErrorBody(r, apperrors.Storage(errors.New("dial tcp 10.0.0.1:3306")))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", body.Error)

	status, body = NewErrorBody(r, apperrors.Validation(map[string]string{"name": "is required"}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, map[string]string{"name": "is required"}, body.Details)
}

func TestClaimsContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithClaims(context.Background(), &sessions.Claims{UserID: "u1"})
	claims, ok := ClaimsFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", claims.UserID)
}
