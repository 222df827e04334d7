package creditconversionerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidConversionID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid credit conversion id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrConversionNotFound = apperror.New(
		apperror.CodeNotFound,
		"credit conversion not found",
		http.StatusNotFound,
	)
	ErrInvalidCredits = apperror.New(
		apperror.CodeValidation,
		"credits requested must be greater than zero",
		http.StatusUnprocessableEntity,
	)
	ErrNotConvertible = apperror.New(
		apperror.CodeValidation,
		"only vacation leave credits can be converted",
		http.StatusUnprocessableEntity,
	)
	ErrBelowMinimumBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"vacation leave balance is below the conversion minimum",
		http.StatusUnprocessableEntity,
	)
	ErrExceedsBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"requested credits exceed the available vacation leave balance",
		http.StatusUnprocessableEntity,
	)
	ErrQuotaExceeded = apperror.New(
		apperror.CodeQuotaExceeded,
		"annual credit conversion quota exceeded",
		http.StatusUnprocessableEntity,
	)
)
