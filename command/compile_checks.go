package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[CreateIntegrationMessage] = (*CreateIntegrationCommand)(nil)
	_ gocmd.Commander[DeleteIntegrationMessage] = (*DeleteIntegrationCommand)(nil)
)
