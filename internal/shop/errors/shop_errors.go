package shoperrors

import (
	"go-payroll/internal/shared/apperror"
	"net/http"
)

var (
	ErrShopNotFound = apperror.New(
		apperror.CodeNotFound,
		"Shop not found",
		http.StatusNotFound,
	)
	ErrShopNameExists = apperror.New(
		apperror.CodeConflict,
		"Shop with the same name already exists",
		http.StatusConflict,
	)
	ErrInvalidShopID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid shop ID",
		http.StatusBadRequest,
	)
)
