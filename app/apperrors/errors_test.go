package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelsMatch(t *testing.T) {
	err := NotFound("product %s not found", "p1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "product p1 not found", Message(err))

	wrapped := fmt.Errorf("loading: %w", InvalidArgument("bad"))
	assert.ErrorIs(t, wrapped, ErrInvalidArgument)
	assert.NotErrorIs(t, wrapped, ErrNotFound)
}

func TestStorageWrapsOnce(t *testing.T) {
	driverErr := errors.New("database is locked")
	err := Storage(Storage(driverErr))
	assert.True(t, IsStorage(err))
	assert.ErrorIs(t, err, driverErr)
	assert.Equal(t, "storage failure: database is locked", err.Error())
	assert.Nil(t, Storage(nil))
}

func TestValidationError(t *testing.T) {
	err := Validation(map[string]string{"price": "must be >= 0", "name": "is required"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, "invalid argument: name: is required; price: must be >= 0", err.Error())
	assert.Equal(t, "name: is required; price: must be >= 0", Message(err))
	assert.Equal(t, "is required", Details(fmt.Errorf("ctx: %w", err))["name"])
	assert.Nil(t, Details(InvalidArgument("plain")))
}
