package query

import (
	"context"

	"github.com/goliatone/go-integrations/core"
)

// IntegrationNameReader lists the record names stored under an origin and
// integration. An empty set is reported as ENTITY_NOT_FOUND.
type IntegrationNameReader interface {
	ListIntegrationNames(ctx context.Context, origin string, integration string) ([]string, error)
}

type MembershipReader interface {
	IsOriginMember(ctx context.Context, sessionID string, origin string) (bool, error)
}

type GetIntegrationNamesQuery struct {
	reader IntegrationNameReader
}

func NewGetIntegrationNamesQuery(reader IntegrationNameReader) *GetIntegrationNamesQuery {
	return &GetIntegrationNamesQuery{reader: reader}
}

func (q *GetIntegrationNamesQuery) Query(
	ctx context.Context,
	msg GetIntegrationNamesMessage,
) (core.OriginIntegrationNames, error) {
	if q == nil || q.reader == nil {
		return core.OriginIntegrationNames{}, queryDependencyError("query: integration name reader is required")
	}
	names, err := q.reader.ListIntegrationNames(ctx, msg.Request.Origin, msg.Request.Integration)
	if err != nil {
		return core.OriginIntegrationNames{}, err
	}
	return core.OriginIntegrationNames{
		Origin:      msg.Request.Origin,
		Integration: msg.Request.Integration,
		Names:       names,
	}, nil
}

type CheckOriginAccessQuery struct {
	reader MembershipReader
}

func NewCheckOriginAccessQuery(reader MembershipReader) *CheckOriginAccessQuery {
	return &CheckOriginAccessQuery{reader: reader}
}

func (q *CheckOriginAccessQuery) Query(
	ctx context.Context,
	msg CheckOriginAccessMessage,
) (core.OriginAccessResult, error) {
	if q == nil || q.reader == nil {
		return core.OriginAccessResult{}, queryDependencyError("query: membership reader is required")
	}
	allowed, err := q.reader.IsOriginMember(ctx, msg.Request.SessionID, msg.Request.Origin)
	if err != nil {
		return core.OriginAccessResult{}, err
	}
	return core.OriginAccessResult{Allowed: allowed}, nil
}
