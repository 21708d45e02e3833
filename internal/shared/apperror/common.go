package apperror

import "net/http"

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Authentication is required",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)

	ErrInvalidPeriod = New(
		CodeInvalidInput,
		"month must be 1-12 and year must be between 2000 and 2100",
		http.StatusBadRequest,
	)
)

// RequiredField reports a missing request field.
func RequiredField(field string) *AppError {
	return New(CodeValidationError, field+" is required", http.StatusBadRequest)
}

// InvalidField reports a request field that failed validation.
func InvalidField(field string) *AppError {
	return New(CodeValidationError, field+" is invalid", http.StatusBadRequest)
}
