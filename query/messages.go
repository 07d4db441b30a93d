package query

import (
	"strings"

	"github.com/goliatone/go-integrations/core"
)

const (
	TypeGetIntegrationNames = "integrations.query.integration.names"
	TypeCheckOriginAccess   = "integrations.query.origin.access"
)

type GetIntegrationNamesMessage struct {
	Request core.GetNamesRequest
}

func (GetIntegrationNamesMessage) Type() string { return TypeGetIntegrationNames }

func (m GetIntegrationNamesMessage) Validate() error {
	if strings.TrimSpace(m.Request.Origin) == "" {
		return queryValidationError("origin", "origin is required")
	}
	if strings.TrimSpace(m.Request.Integration) == "" {
		return queryValidationError("integration", "integration is required")
	}
	return nil
}

type CheckOriginAccessMessage struct {
	Request core.CheckOriginAccessRequest
}

func (CheckOriginAccessMessage) Type() string { return TypeCheckOriginAccess }

func (m CheckOriginAccessMessage) Validate() error {
	if strings.TrimSpace(m.Request.SessionID) == "" {
		return queryValidationError("session_id", "session id is required")
	}
	if strings.TrimSpace(m.Request.Origin) == "" {
		return queryValidationError("origin", "origin is required")
	}
	return nil
}
