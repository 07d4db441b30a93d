// Package httpapi exposes the integrations gateway over HTTP using chi.
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goliatone/go-integrations/core"
	glog "github.com/goliatone/go-logger/glog"
)

const (
	DefaultSessionHeader = "X-Session-ID"

	listCacheControl = "private, no-cache, no-store"
)

// Gateway is the slice of core.Gateway the HTTP surface drives.
type Gateway interface {
	ListIntegrationNames(ctx context.Context, caller core.Caller, source core.ParamSource) (core.NamesResult, error)
	CreateIntegration(ctx context.Context, caller core.Caller, source core.ParamSource, body []byte) error
	DeleteIntegration(ctx context.Context, caller core.Caller, source core.ParamSource) error
}

// Authenticator resolves the caller of a request. ok is false when the
// request carries no usable identity.
type Authenticator interface {
	Authenticate(r *http.Request) (caller core.Caller, ok bool)
}

type AuthenticatorFunc func(r *http.Request) (core.Caller, bool)

func (f AuthenticatorFunc) Authenticate(r *http.Request) (core.Caller, bool) {
	return f(r)
}

// SessionHeaderAuthenticator reads the session id from a request header.
type SessionHeaderAuthenticator struct {
	Header string
}

func (a SessionHeaderAuthenticator) Authenticate(r *http.Request) (core.Caller, bool) {
	header := strings.TrimSpace(a.Header)
	if header == "" {
		header = DefaultSessionHeader
	}
	session := strings.TrimSpace(r.Header.Get(header))
	if session == "" {
		return core.Caller{}, false
	}
	return core.Caller{SessionID: session}, true
}

type Option func(*API)

func WithAuthenticator(authenticator Authenticator) Option {
	return func(a *API) {
		if authenticator != nil {
			a.authenticator = authenticator
		}
	}
}

func WithLogger(logger glog.Logger) Option {
	return func(a *API) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMaxBodyBytes bounds how much of a create body is read. The gateway
// rejects anything over its configured limit, so the API reads one byte more
// than that limit.
func WithMaxBodyBytes(limit int64) Option {
	return func(a *API) {
		if limit > 0 {
			a.maxBodyBytes = limit
		}
	}
}

type API struct {
	gateway       Gateway
	authenticator Authenticator
	logger        glog.Logger
	maxBodyBytes  int64
	router        chi.Router
}

func New(gateway Gateway, opts ...Option) *API {
	a := &API{
		gateway:       gateway,
		authenticator: SessionHeaderAuthenticator{Header: DefaultSessionHeader},
		logger:        glog.Nop(),
		maxBodyBytes:  core.DefaultConfig().Request.MaxBodyBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Route("/v1/depot/origins/{origin}/integrations/{integration}", func(v1 chi.Router) {
		v1.Get("/names", a.listNames)
		v1.Put("/{name}", a.createIntegration)
		v1.Delete("/{name}", a.deleteIntegration)
	})
	a.router = r
	return a
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *API) Router() chi.Router {
	return a.router
}

// RouteParams exposes the chi URL parameters of r. Empty values count as
// absent.
func RouteParams(r *http.Request) core.ParamSource {
	return core.ParamSourceFunc(func(name string) (string, bool) {
		value := chi.URLParam(r, name)
		return value, value != ""
	})
}

func (a *API) listNames(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	result, err := a.gateway.ListIntegrationNames(r.Context(), caller, RouteParams(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if result.Cache == core.CacheNoStore {
		w.Header().Set("Cache-Control", listCacheControl)
	}
	writeJSON(w, http.StatusOK, result.Names)
}

func (a *API) createIntegration(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, a.maxBodyBytes+1))
	if err != nil {
		a.logger.Warn("failed to read integration body", "error", err)
		writeError(w, core.NewOutcomeError(core.OutcomeBadRequest))
		return
	}
	if err := a.gateway.CreateIntegration(r.Context(), caller, RouteParams(r), body); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) deleteIntegration(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	if err := a.gateway.DeleteIntegration(r.Context(), caller, RouteParams(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) caller(w http.ResponseWriter, r *http.Request) (core.Caller, bool) {
	caller, ok := a.authenticator.Authenticate(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: errorDetail{
			Code:    "INTEGRATION_UNAUTHENTICATED",
			Message: "unauthenticated",
		}})
		return core.Caller{}, false
	}
	return caller, true
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	outcome := core.OutcomeOf(err)
	writeJSON(w, outcome.Status(), errorBody{Error: errorDetail{
		Code:    outcome.TextCode(),
		Message: outcome.Message(),
	}})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
