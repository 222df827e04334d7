package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-leave/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("sentinel", func(t *testing.T) {
		got := apperror.ToHTTP(apperror.ErrNotFound)
		assert.Equal(t, http.StatusNotFound, got.Status)
		assert.Equal(t, apperror.CodeNotFound, got.Code)
		assert.Nil(t, got.Details)
	})

	t.Run("wrapped sentinel keeps code and exposes context", func(t *testing.T) {
		err := fmt.Errorf("%w: leave %s", apperror.ErrForbidden, "abc")
		got := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusForbidden, got.Status)
		assert.Equal(t, apperror.CodeForbidden, got.Code)
		assert.Equal(t, err.Error(), got.Details)
	})

	t.Run("unknown error is internal", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("pq: connection reset"))
		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, apperror.CodeInternalError, got.Code)
		assert.Nil(t, got.Details)
	})
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("outer: %w", apperror.ErrUnauthorized)
	assert.True(t, apperror.Is(err, apperror.CodeUnauthorized))
	assert.False(t, apperror.Is(err, apperror.CodeNotFound))
	assert.False(t, apperror.Is(errors.New("plain"), apperror.CodeNotFound))
}

type rejectBody struct {
	Remarks string `json:"remarks" validate:"required,max=5"`
}

func TestMapValidationError(t *testing.T) {
	v := validator.New()

	err := apperror.MapValidationError(v.Struct(rejectBody{}))
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.ToHTTP(err).Status)
	assert.Contains(t, err.Error(), "is required")

	err = apperror.MapValidationError(v.Struct(rejectBody{Remarks: "too long"}))
	assert.Contains(t, err.Error(), "at most 5 characters")

	err = apperror.MapValidationError(errors.New("EOF"))
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
}
