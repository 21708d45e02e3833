package employeeerrors

import (
	"go-payroll/internal/shared/apperror"
	"net/http"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeCodeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee code already exists in this shop",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrShopNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Shop does not exist",
		http.StatusBadRequest,
	)
	ErrNegativeBaseSalary = apperror.New(
		apperror.CodeInvalidInput,
		"base_salary must not be negative",
		http.StatusBadRequest,
	)
)
