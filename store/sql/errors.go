package sqlstore

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-integrations/core"
)

func wrapInternal(err error, message string) error {
	return core.WithBackendCode(
		goerrors.Wrap(err, goerrors.CategoryInternal, message).WithCode(http.StatusInternalServerError),
		core.ErrCodeInternal,
	)
}

func isUniqueViolation(err error) bool {
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	return strings.Contains(message, "unique constraint failed") ||
		strings.Contains(message, "duplicate key value violates unique constraint")
}
