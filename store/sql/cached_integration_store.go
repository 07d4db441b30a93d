package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-integrations/core"
	glog "github.com/goliatone/go-logger/glog"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const integrationNamesCacheKeyPrefix = "go-integrations::names::v1"

// IntegrationRecords is the storage contract the cache decorates.
type IntegrationRecords interface {
	CreateIntegration(ctx context.Context, integration core.OriginIntegration) error
	DeleteIntegration(ctx context.Context, key core.IntegrationKey) error
	ListIntegrationNames(ctx context.Context, origin string, integration string) ([]string, error)
}

// CachedIntegrationStore serves name listings through a read-through cache.
// Writes go to the base store first and then drop the affected listing. A
// write that reached the base store succeeds even when the listing could not
// be dropped; the stale entry expires with the cache TTL.
type CachedIntegrationStore struct {
	base   IntegrationRecords
	cache  repositorycache.CacheService
	logger glog.Logger
}

type CachedStoreOption func(*CachedIntegrationStore)

func WithCachedStoreLogger(logger glog.Logger) CachedStoreOption {
	return func(s *CachedIntegrationStore) {
		s.logger = logger
	}
}

func NewCachedIntegrationStore(
	base IntegrationRecords,
	cacheService repositorycache.CacheService,
	opts ...CachedStoreOption,
) (*CachedIntegrationStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base integration store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: integration cache service is required")
	}
	store := &CachedIntegrationStore{base: base, cache: cacheService}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	store.logger = glog.Ensure(store.logger)
	return store, nil
}

// IntegrationNamesCacheKey returns
// go-integrations::names::v1::<origin>::<integration> with each segment URL
// path escaped.
func IntegrationNamesCacheKey(origin string, integration string) string {
	return strings.Join([]string{
		integrationNamesCacheKeyPrefix,
		url.PathEscape(origin),
		url.PathEscape(integration),
	}, "::")
}

func (s *CachedIntegrationStore) ListIntegrationNames(ctx context.Context, origin string, integration string) ([]string, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return nil, core.NewBackendError(core.ErrCodeInternal, "sqlstore: cached integration store is not configured")
	}
	names, err := repositorycache.GetOrFetch(ctx, s.cache, IntegrationNamesCacheKey(origin, integration),
		func(ctx context.Context) ([]string, error) {
			fetched, fetchErr := s.base.ListIntegrationNames(ctx, origin, integration)
			if fetchErr != nil {
				return nil, fetchErr
			}
			return append([]string(nil), fetched...), nil
		})
	if err != nil {
		return nil, err
	}
	return append([]string(nil), names...), nil
}

func (s *CachedIntegrationStore) CreateIntegration(ctx context.Context, integration core.OriginIntegration) error {
	if s == nil || s.base == nil || s.cache == nil {
		return core.NewBackendError(core.ErrCodeInternal, "sqlstore: cached integration store is not configured")
	}
	if err := s.base.CreateIntegration(ctx, integration); err != nil {
		return err
	}
	s.invalidate(ctx, integration.Origin, integration.Integration)
	return nil
}

func (s *CachedIntegrationStore) DeleteIntegration(ctx context.Context, key core.IntegrationKey) error {
	if s == nil || s.base == nil || s.cache == nil {
		return core.NewBackendError(core.ErrCodeInternal, "sqlstore: cached integration store is not configured")
	}
	if err := s.base.DeleteIntegration(ctx, key); err != nil {
		return err
	}
	s.invalidate(ctx, key.Origin, key.Integration)
	return nil
}

func (s *CachedIntegrationStore) invalidate(ctx context.Context, origin string, integration string) {
	if err := s.cache.Delete(ctx, IntegrationNamesCacheKey(origin, integration)); err != nil {
		s.logger.Error("integration names invalidation failed",
			"origin", origin,
			"integration", integration,
			"error", err,
		)
	}
}

var (
	_ IntegrationRecords = (*IntegrationStore)(nil)
	_ IntegrationRecords = (*CachedIntegrationStore)(nil)
)
