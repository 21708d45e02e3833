package leaveentryerrors

import (
	"go-payroll/internal/shared/apperror"
	"net/http"
)

var (
	ErrLeaveEntryNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave entry not found",
		http.StatusNotFound,
	)
	ErrInvalidLeaveEntryID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid leave entry ID",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveDate = apperror.New(
		apperror.CodeInvalidInput,
		"leave_date must be formatted as YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrLeaveDateOutsidePeriod = apperror.New(
		apperror.CodeInvalidInput,
		"leave_date must fall within the salary record month",
		http.StatusBadRequest,
	)
	ErrDuplicateLeaveDate = apperror.New(
		apperror.CodeConflict,
		"A leave entry already exists for this date",
		http.StatusConflict,
	)
)
