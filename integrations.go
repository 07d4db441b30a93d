// Package integrations is the entry point for the origin integrations gateway.
// The gateway authorizes callers per origin, seals integration bodies and
// forwards record operations to a backend over go-command.
package integrations

import (
	"fmt"

	"github.com/goliatone/go-integrations/adapters/gocommand"
	"github.com/goliatone/go-integrations/core"
)

type Config = core.Config

type Option = core.Option

type Gateway = core.Gateway

type Caller = core.Caller

type ParamSource = core.ParamSource

type Encryptor = core.Encryptor

type OriginIntegration = core.OriginIntegration

type OriginIntegrationNames = core.OriginIntegrationNames

var (
	WithLogger          = core.WithLogger
	WithLoggerProvider  = core.WithLoggerProvider
	WithMetricsRecorder = core.WithMetricsRecorder
	WithConfigProvider  = core.WithConfigProvider
	WithOptionsResolver = core.WithOptionsResolver
	WithAccessChecker   = core.WithAccessChecker
	WithBackend         = core.WithBackend
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// NewDispatcherGateway builds a gateway whose backend requests and origin
// access checks travel over the go-command dispatcher. The handlers must be
// registered separately, see backend.Register. Later options override the
// dispatcher defaults.
func NewDispatcherGateway(cfg Config, encryptor Encryptor, opts ...Option) (*Gateway, error) {
	if encryptor == nil {
		return nil, fmt.Errorf("integrations: encryptor is required")
	}
	defaults := []Option{
		core.WithAccessChecker(gocommand.AccessChecker{}),
		core.WithBackend(gocommand.NewBackend()),
		core.WithEncryptor(encryptor),
	}
	return core.NewGateway(cfg, append(defaults, opts...)...)
}
