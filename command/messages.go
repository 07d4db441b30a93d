package command

import (
	"strings"

	"github.com/goliatone/go-integrations/core"
)

const (
	TypeCreateIntegration = "integrations.command.integration.create"
	TypeDeleteIntegration = "integrations.command.integration.delete"
)

type CreateIntegrationMessage struct {
	Request core.CreateRequest
}

func (CreateIntegrationMessage) Type() string { return TypeCreateIntegration }

func (m CreateIntegrationMessage) Validate() error {
	if err := validateKey(m.Request.Integration.Key()); err != nil {
		return err
	}
	if strings.TrimSpace(m.Request.Integration.Body) == "" {
		return commandValidationError("body", "integration body is required")
	}
	return nil
}

type DeleteIntegrationMessage struct {
	Request core.DeleteRequest
}

func (DeleteIntegrationMessage) Type() string { return TypeDeleteIntegration }

func (m DeleteIntegrationMessage) Validate() error {
	return validateKey(m.Request.Key)
}

func validateKey(key core.IntegrationKey) error {
	if strings.TrimSpace(key.Origin) == "" {
		return commandValidationError("origin", "origin is required")
	}
	if strings.TrimSpace(key.Integration) == "" {
		return commandValidationError("integration", "integration is required")
	}
	if strings.TrimSpace(key.Name) == "" {
		return commandValidationError("name", "name is required")
	}
	return nil
}
