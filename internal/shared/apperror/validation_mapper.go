package apperror

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return cases.Title(language.English).String(s)
}

// MapValidationError turns a binding error into a VALIDATION_ERROR app error
// describing the first failing field.
func MapValidationError(err error) *AppError {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		field := formatFieldName(e.Field())

		var appErr *AppError
		switch e.Tag() {
		case "required":
			appErr = RequiredField(field)
		default:
			appErr = InvalidField(field)
		}

		details := make([]map[string]string, 0, len(errs))
		for _, fe := range errs {
			details = append(details, map[string]string{
				"field": fe.Field(),
				"rule":  fe.Tag(),
			})
		}
		return appErr.WithDetails(details)
	}

	return New(CodeValidationError, "Invalid input", 400).WithDetails(err.Error())
}
