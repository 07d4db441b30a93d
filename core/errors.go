package core

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	IntegrationErrorBadRequest = "INTEGRATION_BAD_REQUEST"
	IntegrationErrorForbidden  = "INTEGRATION_FORBIDDEN"
	IntegrationErrorNotFound   = "INTEGRATION_NOT_FOUND"
	IntegrationErrorConflict   = "INTEGRATION_CONFLICT"
	IntegrationErrorInternal   = "INTEGRATION_INTERNAL_ERROR"
)

// Outcome is the caller facing result class of a gateway operation.
type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeBadRequest Outcome = "bad_request"
	OutcomeForbidden  Outcome = "forbidden"
	OutcomeNotFound   Outcome = "not_found"
	OutcomeConflict   Outcome = "conflict"
	OutcomeInternal   Outcome = "internal"
)

type outcomeSpec struct {
	category goerrors.Category
	status   int
	textCode string
	message  string
}

var outcomeSpecs = map[Outcome]outcomeSpec{
	OutcomeBadRequest: {goerrors.CategoryBadInput, http.StatusBadRequest, IntegrationErrorBadRequest, "bad request"},
	OutcomeForbidden:  {goerrors.CategoryAuthz, http.StatusForbidden, IntegrationErrorForbidden, "forbidden"},
	OutcomeNotFound:   {goerrors.CategoryNotFound, http.StatusNotFound, IntegrationErrorNotFound, "not found"},
	OutcomeConflict:   {goerrors.CategoryConflict, http.StatusConflict, IntegrationErrorConflict, "conflict"},
	OutcomeInternal:   {goerrors.CategoryInternal, http.StatusInternalServerError, IntegrationErrorInternal, "An unexpected error occurred"},
}

// Status returns the HTTP status for the outcome.
func (o Outcome) Status() int {
	if o == OutcomeOK {
		return http.StatusOK
	}
	spec, ok := outcomeSpecs[o]
	if !ok {
		return http.StatusInternalServerError
	}
	return spec.status
}

// TextCode returns the caller facing error code, empty for OutcomeOK.
func (o Outcome) TextCode() string {
	if o == OutcomeOK {
		return ""
	}
	spec, ok := outcomeSpecs[o]
	if !ok {
		spec = outcomeSpecs[OutcomeInternal]
	}
	return spec.textCode
}

func (o Outcome) Message() string {
	if o == OutcomeOK {
		return ""
	}
	spec, ok := outcomeSpecs[o]
	if !ok {
		spec = outcomeSpecs[OutcomeInternal]
	}
	return spec.message
}

// NewOutcomeError builds the caller facing error for an outcome. Messages are
// fixed per outcome so no internal detail leaves the gateway.
func NewOutcomeError(outcome Outcome) *goerrors.Error {
	spec, ok := outcomeSpecs[outcome]
	if !ok {
		spec = outcomeSpecs[OutcomeInternal]
	}
	return goerrors.New(spec.message, spec.category).
		WithCode(spec.status).
		WithTextCode(spec.textCode)
}

// OutcomeOf classifies an error returned by the gateway.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return OutcomeInternal
	}
	for outcome, spec := range outcomeSpecs {
		if rich.TextCode == spec.textCode {
			return outcome
		}
	}
	switch rich.Category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return OutcomeBadRequest
	case goerrors.CategoryAuthz:
		return OutcomeForbidden
	case goerrors.CategoryNotFound:
		return OutcomeNotFound
	case goerrors.CategoryConflict:
		return OutcomeConflict
	default:
		return OutcomeInternal
	}
}

// HTTPStatus returns the status a transport should answer with for err.
func HTTPStatus(err error) int {
	return OutcomeOf(err).Status()
}

// MetadataBackendCode is the metadata key carrying the backend code.
// goerrors.Wrap clones an existing *goerrors.Error and callers usually replace
// its TextCode afterwards, metadata survives both.
const MetadataBackendCode = "backend_code"

// NewBackendError builds an error as the record store reports it.
func NewBackendError(code string, message string) *goerrors.Error {
	code = strings.TrimSpace(code)
	if code == "" {
		code = ErrCodeInternal
	}
	category := goerrors.CategoryInternal
	status := http.StatusInternalServerError
	switch code {
	case ErrCodeEntityNotFound:
		category, status = goerrors.CategoryNotFound, http.StatusNotFound
	case ErrCodeEntityConflict:
		category, status = goerrors.CategoryConflict, http.StatusConflict
	case ErrCodeBadRequest:
		category, status = goerrors.CategoryBadInput, http.StatusBadRequest
	}
	return WithBackendCode(goerrors.New(message, category).WithCode(status), code)
}

// WithBackendCode tags err with a backend code, both as TextCode and as
// metadata.
func WithBackendCode(err *goerrors.Error, code string) *goerrors.Error {
	if err == nil {
		return nil
	}
	return err.WithTextCode(code).
		WithMetadata(map[string]any{MetadataBackendCode: code})
}

// BackendErrorCode extracts the backend code from err. The whole error tree is
// searched, joined errors included. Errors that carry no recognised code are
// reported as ErrCodeInternal.
func BackendErrorCode(err error) string {
	if code, ok := findBackendCode(err); ok {
		return code
	}
	return ErrCodeInternal
}

func findBackendCode(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	if rich, ok := err.(*goerrors.Error); ok {
		if rich == nil {
			return "", false
		}
		if code, ok := rich.Metadata[MetadataBackendCode].(string); ok && isBackendCode(code) {
			return code, true
		}
		if isBackendCode(rich.TextCode) {
			return rich.TextCode, true
		}
	}
	switch wrapped := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range wrapped.Unwrap() {
			if code, ok := findBackendCode(inner); ok {
				return code, true
			}
		}
	case interface{ Unwrap() error }:
		return findBackendCode(wrapped.Unwrap())
	}
	return "", false
}

func isBackendCode(code string) bool {
	switch code {
	case ErrCodeEntityNotFound, ErrCodeEntityConflict, ErrCodeBadRequest, ErrCodeInternal:
		return true
	}
	return false
}

type Operation string

const (
	OperationListNames Operation = "list_integration_names"
	OperationCreate    Operation = "create_integration"
	OperationDelete    Operation = "delete_integration"
)

// backendOutcomes lists the backend codes each operation surfaces to the
// caller. Codes missing from an operation's row map to OutcomeInternal.
var backendOutcomes = map[Operation]map[string]Outcome{
	OperationListNames: {
		ErrCodeEntityNotFound: OutcomeNotFound,
	},
	OperationCreate: {
		ErrCodeEntityConflict: OutcomeConflict,
	},
	OperationDelete: {},
}

func backendOutcome(operation Operation, err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	if outcome, ok := backendOutcomes[operation][BackendErrorCode(err)]; ok {
		return outcome
	}
	return OutcomeInternal
}

var errBackendIncomplete = errors.New("core: backend requesters for get-names, create and delete are required")
