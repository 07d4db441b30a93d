package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-integrations/core"
)

// IntegrationWriter persists integration records. Create reports
// ENTITY_CONFLICT when the key already exists; Delete of a missing key is not
// an error.
type IntegrationWriter interface {
	CreateIntegration(ctx context.Context, integration core.OriginIntegration) error
	DeleteIntegration(ctx context.Context, key core.IntegrationKey) error
}

type CreateIntegrationCommand struct {
	writer IntegrationWriter
}

func NewCreateIntegrationCommand(writer IntegrationWriter) *CreateIntegrationCommand {
	return &CreateIntegrationCommand{writer: writer}
}

func (c *CreateIntegrationCommand) Execute(ctx context.Context, msg CreateIntegrationMessage) error {
	if c == nil || c.writer == nil {
		return commandDependencyError("command: integration writer is required")
	}
	if err := c.writer.CreateIntegration(ctx, msg.Request.Integration); err != nil {
		return err
	}
	storeResult(ctx, core.NetOK{})
	return nil
}

type DeleteIntegrationCommand struct {
	writer IntegrationWriter
}

func NewDeleteIntegrationCommand(writer IntegrationWriter) *DeleteIntegrationCommand {
	return &DeleteIntegrationCommand{writer: writer}
}

func (c *DeleteIntegrationCommand) Execute(ctx context.Context, msg DeleteIntegrationMessage) error {
	if c == nil || c.writer == nil {
		return commandDependencyError("command: integration writer is required")
	}
	if err := c.writer.DeleteIntegration(ctx, msg.Request.Key); err != nil {
		return err
	}
	storeResult(ctx, core.NetOK{})
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
