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

// IntegrationStore keeps sealed integration bodies keyed by
// (origin, integration, name). Uniqueness of the key is enforced by the
// uq_origin_integrations_key index.
type IntegrationStore struct {
	db   *bun.DB
	repo repository.Repository[*originIntegrationRecord]
}

func NewIntegrationStore(db *bun.DB) (*IntegrationStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*originIntegrationRecord](db, originIntegrationHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid integration repository wiring: %w", err)
		}
	}
	return &IntegrationStore{db: db, repo: repo}, nil
}

func (s *IntegrationStore) CreateIntegration(ctx context.Context, integration core.OriginIntegration) error {
	if s == nil || s.db == nil {
		return core.NewBackendError(core.ErrCodeInternal, "sqlstore: integration store is not configured")
	}
	if err := integration.Key().Validate(); err != nil {
		return core.NewBackendError(core.ErrCodeBadRequest, err.Error())
	}
	if strings.TrimSpace(integration.Body) == "" {
		return core.NewBackendError(core.ErrCodeBadRequest, "sqlstore: integration body is required")
	}

	record := newOriginIntegrationRecord(integration, time.Now().UTC())
	record.ID = uuid.NewString()
	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return core.NewBackendError(core.ErrCodeEntityConflict,
				fmt.Sprintf("sqlstore: integration %s already exists", integration.Key()))
		}
		return wrapInternal(err, "sqlstore: insert integration")
	}
	return nil
}

// ListIntegrationNames returns the names under origin and integration in
// ascending order. An empty set is ENTITY_NOT_FOUND.
func (s *IntegrationStore) ListIntegrationNames(ctx context.Context, origin string, integration string) ([]string, error) {
	if s == nil || s.repo == nil {
		return nil, core.NewBackendError(core.ErrCodeInternal, "sqlstore: integration store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("origin", "=", origin),
		repository.SelectBy("integration", "=", integration),
		repository.OrderBy("name ASC"),
	)
	if err != nil {
		return nil, wrapInternal(err, "sqlstore: list integrations")
	}
	if len(records) == 0 {
		return nil, core.NewBackendError(core.ErrCodeEntityNotFound,
			fmt.Sprintf("sqlstore: no integrations for %s/%s", origin, integration))
	}
	names := make([]string, 0, len(records))
	for _, record := range records {
		names = append(names, record.Name)
	}
	return names, nil
}

// DeleteIntegration removes the record for key. Deleting a missing key
// succeeds.
func (s *IntegrationStore) DeleteIntegration(ctx context.Context, key core.IntegrationKey) error {
	if s == nil || s.db == nil {
		return core.NewBackendError(core.ErrCodeInternal, "sqlstore: integration store is not configured")
	}
	if err := key.Validate(); err != nil {
		return core.NewBackendError(core.ErrCodeBadRequest, err.Error())
	}
	_, err := s.db.NewDelete().
		Model((*originIntegrationRecord)(nil)).
		Where("origin = ?", key.Origin).
		Where("integration = ?", key.Integration).
		Where("name = ?", key.Name).
		Exec(ctx)
	if err != nil {
		return wrapInternal(err, "sqlstore: delete integration")
	}
	return nil
}

// LoadBody returns the sealed body stored for key.
func (s *IntegrationStore) LoadBody(ctx context.Context, key core.IntegrationKey) (string, error) {
	if s == nil || s.repo == nil {
		return "", core.NewBackendError(core.ErrCodeInternal, "sqlstore: integration store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("origin", "=", key.Origin),
		repository.SelectBy("integration", "=", key.Integration),
		repository.SelectBy("name", "=", key.Name),
	)
	if err != nil {
		return "", wrapInternal(err, "sqlstore: load integration")
	}
	if len(records) == 0 {
		return "", core.NewBackendError(core.ErrCodeEntityNotFound,
			fmt.Sprintf("sqlstore: integration %s not found", key))
	}
	return records[0].Body, nil
}
