// Package gocommand carries the backend protocol over the go-command
// dispatcher. Commands are also tracked in a go-command registry so resolvers,
// such as the go-job queue mirror, can pick them up. Queries live on the
// dispatcher only.
package gocommand

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
)

// CommandRegistry records the backend commands subscribed on the dispatcher.
type CommandRegistry struct {
	mu       sync.Mutex
	registry *command.Registry
	types    []string
}

func NewCommandRegistry(registry *command.Registry) *CommandRegistry {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &CommandRegistry{registry: registry}
}

func (r *CommandRegistry) Registry() *command.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Commands returns the message types recorded so far, in registration order.
func (r *CommandRegistry) Commands() []string {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.types...)
}

// MirrorToQueue adds a resolver that registers every recorded command in
// queueRegistry when Initialize runs.
func (r *CommandRegistry) MirrorToQueue(key string, queueRegistry *jobqueuecommand.Registry) error {
	if r == nil || r.registry == nil {
		return errRegistryMissing
	}
	if queueRegistry == nil {
		return fmt.Errorf("gocommand: queue registry is required")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("gocommand: resolver key is required")
	}
	return r.registry.AddResolver(key, jobqueuecommand.QueueResolver(queueRegistry))
}

func (r *CommandRegistry) HasResolver(key string) bool {
	if r == nil || r.registry == nil {
		return false
	}
	return r.registry.HasResolver(strings.TrimSpace(key))
}

// Initialize runs the resolvers over the recorded commands. No command can be
// recorded afterwards.
func (r *CommandRegistry) Initialize() error {
	if r == nil || r.registry == nil {
		return errRegistryMissing
	}
	return r.registry.Initialize()
}

func (r *CommandRegistry) record(cmd any, messageType string) error {
	if r == nil || r.registry == nil {
		return errRegistryMissing
	}
	if err := r.registry.RegisterCommand(cmd); err != nil {
		return err
	}
	r.mu.Lock()
	r.types = append(r.types, messageType)
	r.mu.Unlock()
	return nil
}

var errRegistryMissing = fmt.Errorf("gocommand: registry is not configured")

// SubscribeCommand subscribes cmd on the dispatcher and records it in the
// registry. The subscription is dropped again if recording fails.
func SubscribeCommand[T command.Message](
	registry *CommandRegistry,
	cmd command.Commander[T],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if registry == nil || registry.registry == nil {
		return nil, errRegistryMissing
	}
	if cmd == nil {
		return nil, fmt.Errorf("gocommand: command is required")
	}
	var msg T
	subscription := commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
	if err := registry.record(cmd, msg.Type()); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

// SubscribeQuery subscribes qry on the dispatcher. Queries are answered in
// process and are never mirrored.
func SubscribeQuery[T command.Message, R any](
	qry command.Querier[T, R],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if qry == nil {
		return nil, fmt.Errorf("gocommand: query is required")
	}
	return commanddispatcher.SubscribeQuery(qry, runnerOpts...), nil
}

func dispatch[T command.Message](ctx context.Context, msg T) error {
	if err := checkMessage(msg); err != nil {
		return badRequest(err)
	}
	return commanddispatcher.Dispatch(ctx, msg)
}

func ask[T command.Message, R any](ctx context.Context, msg T) (R, error) {
	if err := checkMessage(msg); err != nil {
		var zero R
		return zero, badRequest(err)
	}
	return commanddispatcher.Query[T, R](ctx, msg)
}

// checkMessage requires a message type and runs the optional Validate hook.
func checkMessage(msg command.Message) error {
	if strings.TrimSpace(msg.Type()) == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	return command.ValidateMessage(msg)
}
