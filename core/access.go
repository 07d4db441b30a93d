package core

import (
	"context"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

// AccessGuard decides whether a caller may act on an origin's integrations.
// Decisions are made per call and never cached.
type AccessGuard struct {
	checker OriginAccessChecker
	logger  Logger
}

func NewAccessGuard(checker OriginAccessChecker, logger Logger) *AccessGuard {
	return &AccessGuard{
		checker: checker,
		logger:  glog.Ensure(logger),
	}
}

// Authorize returns nil when access is granted, a Forbidden error when it is
// denied and an Internal error when the check itself could not complete.
func (g *AccessGuard) Authorize(ctx context.Context, caller CallerContext) error {
	if g == nil || g.checker == nil {
		return NewOutcomeError(OutcomeInternal)
	}
	if strings.TrimSpace(caller.Caller.SessionID) == "" {
		g.logger.Debug("origin access denied: caller has no session", "origin", caller.Origin)
		return NewOutcomeError(OutcomeForbidden)
	}

	allowed, err := g.checker.CheckOriginAccess(ctx, caller.Caller.SessionID, caller.Origin)
	if err != nil {
		g.logger.Error("origin access check failed",
			"session_id", caller.Caller.SessionID,
			"origin", caller.Origin,
			"error", err,
		)
		return NewOutcomeError(OutcomeInternal)
	}
	if !allowed {
		g.logger.Debug("failed origin access check",
			"session_id", caller.Caller.SessionID,
			"origin", caller.Origin,
		)
		return NewOutcomeError(OutcomeForbidden)
	}
	return nil
}
