package gocommand

import (
	"context"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-integrations/command"
	"github.com/goliatone/go-integrations/core"
	"github.com/goliatone/go-integrations/query"
)

// NewBackend returns requesters that talk to the backend handlers subscribed
// on the go-command dispatcher.
func NewBackend() core.Backend {
	return core.Backend{
		GetNames: GetNamesRequester{},
		Create:   CreateRequester{},
		Delete:   DeleteRequester{},
	}
}

type GetNamesRequester struct{}

func (GetNamesRequester) Request(ctx context.Context, req core.GetNamesRequest) (core.OriginIntegrationNames, error) {
	return ask[query.GetIntegrationNamesMessage, core.OriginIntegrationNames](ctx,
		query.GetIntegrationNamesMessage{Request: req})
}

type CreateRequester struct{}

func (CreateRequester) Request(ctx context.Context, req core.CreateRequest) (core.NetOK, error) {
	if err := dispatch(ctx, command.CreateIntegrationMessage{Request: req}); err != nil {
		return core.NetOK{}, err
	}
	return core.NetOK{}, nil
}

type DeleteRequester struct{}

func (DeleteRequester) Request(ctx context.Context, req core.DeleteRequest) (core.NetOK, error) {
	if err := dispatch(ctx, command.DeleteIntegrationMessage{Request: req}); err != nil {
		return core.NetOK{}, err
	}
	return core.NetOK{}, nil
}

// AccessChecker answers origin access checks through the backend membership
// query.
type AccessChecker struct{}

func (AccessChecker) CheckOriginAccess(ctx context.Context, sessionID string, origin string) (bool, error) {
	out, err := ask[query.CheckOriginAccessMessage, core.OriginAccessResult](ctx,
		query.CheckOriginAccessMessage{Request: core.CheckOriginAccessRequest{
			SessionID: sessionID,
			Origin:    origin,
		}})
	if err != nil {
		return false, err
	}
	return out.Allowed, nil
}

func badRequest(err error) error {
	return core.WithBackendCode(
		goerrors.Wrap(err, goerrors.CategoryBadInput, "gocommand: invalid backend message").
			WithCode(http.StatusBadRequest),
		core.ErrCodeBadRequest,
	)
}

var (
	_ core.Requester[core.GetNamesRequest, core.OriginIntegrationNames] = GetNamesRequester{}
	_ core.Requester[core.CreateRequest, core.NetOK]                     = CreateRequester{}
	_ core.Requester[core.DeleteRequest, core.NetOK]                     = DeleteRequester{}
	_ core.OriginAccessChecker                                           = AccessChecker{}
)
