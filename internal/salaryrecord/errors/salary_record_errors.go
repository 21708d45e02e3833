package salaryrecorderrors

import (
	"go-payroll/internal/shared/apperror"
	"net/http"
)

var (
	ErrSalaryRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"Salary record not found",
		http.StatusNotFound,
	)
	ErrInvalidSalaryRecordID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid salary record ID",
		http.StatusBadRequest,
	)
	ErrShopNotFound = apperror.New(
		apperror.CodeNotFound,
		"Shop not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrLeaveManagedByEntries = apperror.New(
		apperror.CodeInvalidState,
		"salary record leave is managed by leave entries",
		http.StatusConflict,
	)
	ErrNegativeAmount = apperror.New(
		apperror.CodeInvalidInput,
		"bonus, penalty, advance_taken and increment_adjustment must not be negative",
		http.StatusBadRequest,
	)
	ErrSalaryRecordExists = apperror.New(
		apperror.CodeConflict,
		"Salary record already exists for this period",
		http.StatusConflict,
	)
	ErrNoRecordsToExport = apperror.New(
		apperror.CodeNotFound,
		"No salary records for this period",
		http.StatusNotFound,
	)
	ErrUnsupportedFormat = apperror.New(
		apperror.CodeInvalidInput,
		"format must be pdf or xlsx",
		http.StatusBadRequest,
	)
)
