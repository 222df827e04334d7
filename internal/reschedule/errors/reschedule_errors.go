package rescheduleerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidRescheduleID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid reschedule request id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid proposed date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrNoProposedDates = apperror.New(
		apperror.CodeValidation,
		"at least one proposed date is required",
		http.StatusUnprocessableEntity,
	)
	ErrDuplicateDate = apperror.New(
		apperror.CodeValidation,
		"proposed dates must not repeat",
		http.StatusUnprocessableEntity,
	)
	ErrNoWorkingDays = apperror.New(
		apperror.CodeValidation,
		"proposed dates contain no working days",
		http.StatusUnprocessableEntity,
	)
	ErrRescheduleNotFound = apperror.New(
		apperror.CodeNotFound,
		"reschedule request not found",
		http.StatusNotFound,
	)
	ErrNotOwner = apperror.Wrap(
		apperror.ErrForbidden,
		apperror.CodeForbidden,
		"only the leave owner can request a reschedule",
		http.StatusForbidden,
	)
	ErrLeaveNotReschedulable = apperror.New(
		apperror.CodeInvalidState,
		"only approved or rescheduled leave can be rescheduled",
		http.StatusConflict,
	)
	ErrPendingReschedule = apperror.New(
		apperror.CodeConflict,
		"leave request already has a pending reschedule",
		http.StatusConflict,
	)
)
