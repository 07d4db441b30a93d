package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-integrations/core"
)

var (
	_ gocmd.Querier[GetIntegrationNamesMessage, core.OriginIntegrationNames] = (*GetIntegrationNamesQuery)(nil)
	_ gocmd.Querier[CheckOriginAccessMessage, core.OriginAccessResult]       = (*CheckOriginAccessQuery)(nil)
)
