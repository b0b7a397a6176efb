package helpers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"

	"github.com/Rakhulsr/go-smartmart/app/apperrors"
	"github.com/Rakhulsr/go-smartmart/app/utils/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const (
	ContextKeyClaims contextKey = "sessionClaims"
	CSRFTokenKey     contextKey = "csrfToken"
)

// NewValidator reports fields by their json names and validates decimals as
// numbers, so tags like gte=0,lte=100 work on decimal.Decimal fields.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// ValidateStruct runs v on s and converts field failures into an
// apperrors.ValidationError.
func ValidateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(FormatValidationErrors(verrs))
	}
	return apperrors.InvalidArgument("%v", err)
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errorMessages[field] = "is required"
		case "email":
			errorMessages[field] = "must be a valid email address"
		case "min":
			errorMessages[field] = fmt.Sprintf("must be at least %s", err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("must be at most %s", err.Param())
		case "gte":
			errorMessages[field] = fmt.Sprintf("must be greater than or equal to %s", err.Param())
		case "lte":
			errorMessages[field] = fmt.Sprintf("must be less than or equal to %s", err.Param())
		case "oneof":
			errorMessages[field] = fmt.Sprintf("must be one of: %s", strings.ReplaceAll(err.Param(), " ", ", "))
		case "uuid":
			errorMessages[field] = "must be a valid id"
		default:
			errorMessages[field] = fmt.Sprintf("failed %s validation", err.Tag())
		}
	}
	return errorMessages
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

func PasswordCompare(hashPass string, password []byte) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashPass), password)
	if err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			log.Printf("PasswordCompare: unexpected error: %v", err)
		}
		return false
	}
	return true
}

// StatusCode maps the error taxonomy onto HTTP statuses.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// NewErrorBody hides internal failures behind a generic message; the cause
// is logged instead.
func NewErrorBody(r *http.Request, err error) (int, ErrorBody) {
	status := StatusCode(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: internal error: %v", r.Method, r.URL.Path, err)
		return status, ErrorBody{Error: "internal server error"}
	}
	return status, ErrorBody{Error: apperrors.Message(err), Details: apperrors.Details(err)}
}

func WithClaims(ctx context.Context, claims *sessions.Claims) context.Context {
	return context.WithValue(ctx, ContextKeyClaims, claims)
}

func ClaimsFromContext(ctx context.Context) (*sessions.Claims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(*sessions.Claims)
	return claims, ok && claims != nil
}
