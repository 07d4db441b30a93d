// Package backend registers the record store handlers on the go-command
// dispatcher. The gateway reaches them through the requesters in
// adapters/gocommand.
package backend

import (
	"fmt"
	"sync"

	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-integrations/adapters/gocommand"
	"github.com/goliatone/go-integrations/adapters/gologger"
	"github.com/goliatone/go-integrations/command"
	"github.com/goliatone/go-integrations/core"
	"github.com/goliatone/go-integrations/query"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
	glog "github.com/goliatone/go-logger/glog"
)

const QueueResolverKey = "queue"

// Stores are the persistence collaborators the handlers delegate to.
type Stores struct {
	Integrations command.IntegrationWriter
	Names        query.IntegrationNameReader
	Members      query.MembershipReader
}

func (s Stores) validate() error {
	if s.Integrations == nil {
		return fmt.Errorf("backend: integration writer is required")
	}
	if s.Names == nil {
		return fmt.Errorf("backend: integration name reader is required")
	}
	if s.Members == nil {
		return fmt.Errorf("backend: membership reader is required")
	}
	return nil
}

type Option func(*registrar)

type registrar struct {
	queueRegistry  *jobqueuecommand.Registry
	logger         glog.Logger
	loggerProvider glog.LoggerProvider
}

// WithQueueRegistry mirrors the backend commands into a go-job queue registry
// so they can also be executed by queue workers.
func WithQueueRegistry(registry *jobqueuecommand.Registry) Option {
	return func(r *registrar) {
		r.queueRegistry = registry
	}
}

func WithLogger(logger glog.Logger) Option {
	return func(r *registrar) {
		r.logger = logger
	}
}

func WithLoggerProvider(provider glog.LoggerProvider) Option {
	return func(r *registrar) {
		r.loggerProvider = provider
	}
}

// Registration holds the dispatcher subscriptions created by Register.
type Registration struct {
	mu            sync.Mutex
	subscriptions []commanddispatcher.Subscription
	loggers       gologger.Loggers
}

// Close drops every subscription. It is safe to call more than once.
func (r *Registration) Close() {
	if r == nil {
		return
	}
	r.mu.Lock()
	subs := r.subscriptions
	r.subscriptions = nil
	r.mu.Unlock()
	for _, sub := range subs {
		if sub != nil {
			sub.Unsubscribe()
		}
	}
}

func (r *Registration) Loggers() gologger.Loggers {
	if r == nil {
		return gologger.Loggers{}
	}
	return r.loggers
}

// Register subscribes the create, delete, get-names and check-access handlers.
// Only the two commands are recorded in the registry, so only they are
// mirrored into the queue registry.
func Register(commands *gocommand.CommandRegistry, stores Stores, opts ...Option) (*Registration, error) {
	if commands == nil {
		return nil, fmt.Errorf("backend: command registry is required")
	}
	if err := stores.validate(); err != nil {
		return nil, err
	}
	cfg := registrar{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	reg := &Registration{
		loggers: gologger.Resolve(gologger.DefaultLoggerName+".backend", cfg.loggerProvider, cfg.logger),
	}
	if cfg.queueRegistry != nil {
		if err := commands.MirrorToQueue(QueueResolverKey, cfg.queueRegistry); err != nil {
			return nil, err
		}
	}

	steps := []func() (commanddispatcher.Subscription, error){
		func() (commanddispatcher.Subscription, error) {
			return gocommand.SubscribeCommand[command.CreateIntegrationMessage](
				commands, command.NewCreateIntegrationCommand(stores.Integrations))
		},
		func() (commanddispatcher.Subscription, error) {
			return gocommand.SubscribeCommand[command.DeleteIntegrationMessage](
				commands, command.NewDeleteIntegrationCommand(stores.Integrations))
		},
		func() (commanddispatcher.Subscription, error) {
			return gocommand.SubscribeQuery[query.GetIntegrationNamesMessage, core.OriginIntegrationNames](
				query.NewGetIntegrationNamesQuery(stores.Names))
		},
		func() (commanddispatcher.Subscription, error) {
			return gocommand.SubscribeQuery[query.CheckOriginAccessMessage, core.OriginAccessResult](
				query.NewCheckOriginAccessQuery(stores.Members))
		},
	}
	for _, step := range steps {
		sub, err := step()
		if err != nil {
			reg.Close()
			return nil, err
		}
		reg.subscriptions = append(reg.subscriptions, sub)
	}

	if err := commands.Initialize(); err != nil {
		reg.Close()
		return nil, fmt.Errorf("backend: initialize registry: %w", err)
	}
	if cfg.queueRegistry != nil {
		reg.loggers.JobLogger.Info("backend commands mirrored to queue registry",
			"commands", commands.Commands())
	}
	reg.loggers.Logger.Info("backend handlers registered", "handlers", len(reg.subscriptions))
	return reg, nil
}
