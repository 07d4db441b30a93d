package query

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-integrations/core"
)

func queryDependencyError(message string) error {
	return core.WithBackendCode(
		goerrors.New(message, goerrors.CategoryInternal).WithCode(http.StatusInternalServerError),
		core.ErrCodeInternal,
	)
}

func queryValidationError(field string, message string) error {
	return core.WithBackendCode(goerrors.NewValidation("query: validation failed", goerrors.FieldError{
		Field:   field,
		Message: message,
	}).
		WithCode(http.StatusBadRequest).
		WithSeverity(goerrors.SeverityError), core.ErrCodeBadRequest)
}
