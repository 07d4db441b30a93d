package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// Gateway handles the list, create and delete operations for origin
// integrations. It keeps no mutable state between requests.
type Gateway struct {
	config          Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	guard           *AccessGuard
	cipher          *SecretCipher
	backend         Backend
}

func NewGateway(cfg Config, opts ...Option) (*Gateway, error) {
	builder := defaultGatewayBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("integrations", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("integrations"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.accessChecker == nil {
		return nil, fmt.Errorf("core: origin access checker is required")
	}
	if builder.encryptor == nil {
		return nil, fmt.Errorf("core: encryptor is required")
	}
	if err := builder.backend.validate(); err != nil {
		return nil, err
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, fmt.Errorf("core: load config: %w", err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, fmt.Errorf("core: resolve config: %w", err)
	}

	return &Gateway{
		config:          finalConfig,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		guard:           NewAccessGuard(builder.accessChecker, logger),
		cipher:          NewSecretCipher(builder.encryptor),
		backend:         builder.backend,
	}, nil
}

func (g *Gateway) Config() Config {
	if g == nil {
		return Config{}
	}
	return g.config
}

// ListIntegrationNames returns the names stored for an origin and integration
// type. Bodies are never part of the result and the result must not be cached.
func (g *Gateway) ListIntegrationNames(ctx context.Context, caller Caller, source ParamSource) (result NamesResult, err error) {
	startedAt := time.Now()
	defer func() { g.observe(ctx, OperationListNames, startedAt, err) }()

	params, err := g.admit(ctx, caller, source, ParamOrigin, ParamIntegration)
	if err != nil {
		return NamesResult{}, err
	}

	names, err := g.backend.GetNames.Request(ctx, GetNamesRequest{
		Origin:      params.Origin(),
		Integration: params.Integration(),
	})
	if err != nil {
		return NamesResult{}, g.backendFailure(OperationListNames, params, err)
	}
	if names.Names == nil {
		names.Names = []string{}
	}
	return NamesResult{Names: names, Cache: CacheNoStore}, nil
}

// CreateIntegration encrypts the raw request body and asks the backend to
// store it under (origin, integration, name).
func (g *Gateway) CreateIntegration(ctx context.Context, caller Caller, source ParamSource, body []byte) (err error) {
	startedAt := time.Now()
	defer func() { g.observe(ctx, OperationCreate, startedAt, err) }()

	params, err := g.admit(ctx, caller, source, ParamOrigin, ParamIntegration, ParamName)
	if err != nil {
		return err
	}
	if err := g.validateBody(params, body); err != nil {
		return err
	}

	sealed, err := g.cipher.Encrypt(ctx, string(body))
	if err != nil {
		g.logger.Error("create_integration: encrypt body failed",
			"origin", params.Origin(),
			"integration", params.Integration(),
			"name", params.Name(),
			"error", err,
		)
		return NewOutcomeError(OutcomeInternal)
	}

	_, err = g.backend.Create.Request(ctx, CreateRequest{
		Integration: OriginIntegration{
			Origin:      params.Origin(),
			Integration: params.Integration(),
			Name:        params.Name(),
			Body:        sealed,
		},
	})
	if err != nil {
		return g.backendFailure(OperationCreate, params, err)
	}
	return nil
}

// DeleteIntegration removes the integration identified by the full key.
func (g *Gateway) DeleteIntegration(ctx context.Context, caller Caller, source ParamSource) (err error) {
	startedAt := time.Now()
	defer func() { g.observe(ctx, OperationDelete, startedAt, err) }()

	params, err := g.admit(ctx, caller, source, ParamOrigin, ParamIntegration, ParamName)
	if err != nil {
		return err
	}

	_, err = g.backend.Delete.Request(ctx, DeleteRequest{
		Key: IntegrationKey{
			Origin:      params.Origin(),
			Integration: params.Integration(),
			Name:        params.Name(),
		},
	})
	if err != nil {
		return g.backendFailure(OperationDelete, params, err)
	}
	return nil
}

// admit runs parameter validation then authorization, in that order, for
// every operation.
func (g *Gateway) admit(ctx context.Context, caller Caller, source ParamSource, required ...string) (ValidatedParams, error) {
	if g == nil {
		return nil, NewOutcomeError(OutcomeInternal)
	}
	params, err := ValidateParams(source, required...)
	if err != nil {
		return nil, err
	}
	if err := g.guard.Authorize(ctx, CallerContext{Caller: caller, Origin: params.Origin()}); err != nil {
		return nil, err
	}
	return params, nil
}

func (g *Gateway) validateBody(params ValidatedParams, body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		g.logger.Warn("create_integration: empty body in request",
			"origin", params.Origin(),
			"integration", params.Integration(),
			"name", params.Name(),
		)
		return NewOutcomeError(OutcomeBadRequest)
	}
	if int64(len(body)) > g.config.Request.MaxBodyBytes {
		g.logger.Warn("create_integration: body exceeds limit",
			"origin", params.Origin(),
			"size", len(body),
			"limit", g.config.Request.MaxBodyBytes,
		)
		return NewOutcomeError(OutcomeBadRequest)
	}
	if !json.Valid(body) {
		g.logger.Warn("create_integration: error parsing body",
			"origin", params.Origin(),
			"integration", params.Integration(),
			"name", params.Name(),
		)
		return NewOutcomeError(OutcomeBadRequest)
	}
	return nil
}

func (g *Gateway) backendFailure(operation Operation, params ValidatedParams, err error) error {
	outcome := backendOutcome(operation, err)
	fields := []any{
		"operation", string(operation),
		"origin", params.Origin(),
		"integration", params.Integration(),
		"code", BackendErrorCode(err),
		"error", err,
	}
	if name := params.Name(); name != "" {
		fields = append(fields, "name", name)
	}
	switch outcome {
	case OutcomeInternal:
		g.logger.Error(string(operation)+": backend request failed", fields...)
	case OutcomeConflict:
		g.logger.Warn(string(operation)+": integration already exists", fields...)
	default:
		g.logger.Debug(string(operation)+": backend reported "+string(outcome), fields...)
	}
	return NewOutcomeError(outcome)
}
