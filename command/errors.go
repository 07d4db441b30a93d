package command

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-integrations/core"
)

func commandDependencyError(message string) error {
	return core.WithBackendCode(
		goerrors.New(message, goerrors.CategoryInternal).WithCode(http.StatusInternalServerError),
		core.ErrCodeInternal,
	)
}

func commandValidationError(field string, message string) error {
	return core.WithBackendCode(goerrors.NewValidation("command: validation failed", goerrors.FieldError{
		Field:   field,
		Message: message,
	}).
		WithCode(http.StatusBadRequest).
		WithSeverity(goerrors.SeverityError), core.ErrCodeBadRequest)
}
