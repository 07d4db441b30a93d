package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-integrations/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// MembershipStore records which sessions may act on an origin.
type MembershipStore struct {
	db   *bun.DB
	repo repository.Repository[*originMemberRecord]
}

func NewMembershipStore(db *bun.DB) (*MembershipStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*originMemberRecord](db, originMemberHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid membership repository wiring: %w", err)
		}
	}
	return &MembershipStore{db: db, repo: repo}, nil
}

func (s *MembershipStore) IsOriginMember(ctx context.Context, sessionID string, origin string) (bool, error) {
	if s == nil || s.repo == nil {
		return false, core.NewBackendError(core.ErrCodeInternal, "sqlstore: membership store is not configured")
	}
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(origin) == "" {
		return false, nil
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("session_id", "=", sessionID),
		repository.SelectBy("origin", "=", origin),
	)
	if err != nil {
		return false, wrapInternal(err, "sqlstore: lookup origin membership")
	}
	return len(records) > 0, nil
}

// AddMember grants sessionID access to origin. Granting twice is a no-op.
func (s *MembershipStore) AddMember(ctx context.Context, sessionID string, origin string) error {
	if s == nil || s.db == nil {
		return core.NewBackendError(core.ErrCodeInternal, "sqlstore: membership store is not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	origin = strings.TrimSpace(origin)
	if sessionID == "" || origin == "" {
		return core.NewBackendError(core.ErrCodeBadRequest, "sqlstore: session id and origin are required")
	}
	record := &originMemberRecord{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Origin:    origin,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return wrapInternal(err, "sqlstore: insert origin membership")
	}
	return nil
}

func (s *MembershipStore) RemoveMember(ctx context.Context, sessionID string, origin string) error {
	if s == nil || s.db == nil {
		return core.NewBackendError(core.ErrCodeInternal, "sqlstore: membership store is not configured")
	}
	_, err := s.db.NewDelete().
		Model((*originMemberRecord)(nil)).
		Where("session_id = ?", sessionID).
		Where("origin = ?", origin).
		Exec(ctx)
	if err != nil {
		return wrapInternal(err, "sqlstore: delete origin membership")
	}
	return nil
}
