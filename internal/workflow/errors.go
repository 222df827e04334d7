package workflow

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrNotInStage = apperror.New(
		apperror.CodeInvalidState,
		"request is not in the correct stage for this role",
		http.StatusConflict,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeInvalidState,
		"request has already been processed",
		http.StatusConflict,
	)
	ErrNoTransition = apperror.New(
		apperror.CodeInvalidState,
		"decision is not allowed at this stage",
		http.StatusConflict,
	)
	ErrUnknownRole = apperror.New(
		apperror.CodeForbidden,
		"role is not an approver role",
		http.StatusForbidden,
	)
)
