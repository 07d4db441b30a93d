package sqlstore_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-integrations/core"
	"github.com/goliatone/go-integrations/migrations"
	sqlstore "github.com/goliatone/go-integrations/store/sql"
	persistence "github.com/goliatone/go-persistence-bun"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

type testPersistenceConfig struct {
	driver string
	server string
}

func (c testPersistenceConfig) GetDebug() bool {
	return false
}

func (c testPersistenceConfig) GetDriver() string {
	return c.driver
}

func (c testPersistenceConfig) GetServer() string {
	return c.server
}

func (c testPersistenceConfig) GetPingTimeout() time.Duration {
	return time.Second
}

func (c testPersistenceConfig) GetOtelIdentifier() string {
	return "go-integrations-tests"
}

func TestMigrationSmokeApplySQLite(t *testing.T) {
	client := newSQLiteClient(t)

	for _, table := range []string{"origin_integrations", "origin_members"} {
		var name string
		if err := client.DB().NewRaw(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?",
			table,
		).Scan(context.Background(), &name); err != nil {
			t.Fatalf("query sqlite master for %s: %v", table, err)
		}
		if name != table {
			t.Fatalf("expected %s table, got %q", table, name)
		}
	}
}

func TestIntegrationStore_CreateListDelete(t *testing.T) {
	ctx := context.Background()
	factory := newFactory(t)
	store := factory.IntegrationStore()

	for _, name := range []string{"deploys", "alerts"} {
		if err := store.CreateIntegration(ctx, core.OriginIntegration{
			Origin: "acme", Integration: "slack", Name: name, Body: "sealed-" + name,
		}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	if err := store.CreateIntegration(ctx, core.OriginIntegration{
		Origin: "acme", Integration: "github", Name: "alerts", Body: "sealed",
	}); err != nil {
		t.Fatalf("create same name under another integration: %v", err)
	}

	names, err := store.ListIntegrationNames(ctx, "acme", "slack")
	if err != nil {
		t.Fatalf("list names: %v", err)
	}
	if len(names) != 2 || names[0] != "alerts" || names[1] != "deploys" {
		t.Fatalf("expected sorted names [alerts deploys], got %v", names)
	}

	body, err := store.LoadBody(ctx, core.IntegrationKey{Origin: "acme", Integration: "slack", Name: "alerts"})
	if err != nil {
		t.Fatalf("load body: %v", err)
	}
	if body != "sealed-alerts" {
		t.Fatalf("expected stored ciphertext to round trip, got %q", body)
	}

	key := core.IntegrationKey{Origin: "acme", Integration: "slack", Name: "alerts"}
	if err := store.DeleteIntegration(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteIntegration(ctx, key); err != nil {
		t.Fatalf("expected repeated delete to succeed, got %v", err)
	}
	names, err = store.ListIntegrationNames(ctx, "acme", "slack")
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(names) != 1 || names[0] != "deploys" {
		t.Fatalf("unexpected names after delete: %v", names)
	}
}

func TestIntegrationStore_DuplicateKeyIsConflict(t *testing.T) {
	ctx := context.Background()
	store := newFactory(t).IntegrationStore()
	integration := core.OriginIntegration{Origin: "acme", Integration: "slack", Name: "alerts", Body: "sealed"}

	if err := store.CreateIntegration(ctx, integration); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := store.CreateIntegration(ctx, integration)
	if code := core.BackendErrorCode(err); code != core.ErrCodeEntityConflict {
		t.Fatalf("expected %s, got %s (%v)", core.ErrCodeEntityConflict, code, err)
	}
}

func TestIntegrationStore_ConcurrentCreatesAdmitOne(t *testing.T) {
	ctx := context.Background()
	store := newFactory(t).IntegrationStore()
	integration := core.OriginIntegration{Origin: "acme", Integration: "slack", Name: "alerts", Body: "sealed"}

	const workers = 6
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.CreateIntegration(ctx, integration)
		}()
	}
	wg.Wait()
	close(results)

	ok, conflicts := 0, 0
	for err := range results {
		switch core.BackendErrorCode(err) {
		case core.ErrCodeEntityConflict:
			conflicts++
		default:
			if err == nil {
				ok++
			} else {
				t.Fatalf("unexpected error: %v", err)
			}
		}
	}
	if ok != 1 || conflicts != workers-1 {
		t.Fatalf("expected 1 success and %d conflicts, got %d/%d", workers-1, ok, conflicts)
	}
}

func TestIntegrationStore_EmptyListIsNotFound(t *testing.T) {
	store := newFactory(t).IntegrationStore()
	_, err := store.ListIntegrationNames(context.Background(), "acme", "slack")
	if code := core.BackendErrorCode(err); code != core.ErrCodeEntityNotFound {
		t.Fatalf("expected %s, got %s (%v)", core.ErrCodeEntityNotFound, code, err)
	}
	_, err = store.LoadBody(context.Background(), core.IntegrationKey{Origin: "acme", Integration: "slack", Name: "x"})
	if code := core.BackendErrorCode(err); code != core.ErrCodeEntityNotFound {
		t.Fatalf("expected %s for missing body, got %s", core.ErrCodeEntityNotFound, code)
	}
}

func TestIntegrationStore_RejectsIncompleteKeys(t *testing.T) {
	store := newFactory(t).IntegrationStore()
	err := store.CreateIntegration(context.Background(), core.OriginIntegration{Origin: "acme", Integration: "slack", Body: "x"})
	if code := core.BackendErrorCode(err); code != core.ErrCodeBadRequest {
		t.Fatalf("expected %s, got %s", core.ErrCodeBadRequest, code)
	}
	err = store.DeleteIntegration(context.Background(), core.IntegrationKey{Origin: "acme"})
	if code := core.BackendErrorCode(err); code != core.ErrCodeBadRequest {
		t.Fatalf("expected %s, got %s", core.ErrCodeBadRequest, code)
	}
}

func TestMembershipStore_AddCheckRemove(t *testing.T) {
	ctx := context.Background()
	members := newFactory(t).MembershipStore()

	if err := members.AddMember(ctx, "sess-1", "acme"); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := members.AddMember(ctx, "sess-1", "acme"); err != nil {
		t.Fatalf("expected repeated grant to be a no-op, got %v", err)
	}

	allowed, err := members.IsOriginMember(ctx, "sess-1", "acme")
	if err != nil || !allowed {
		t.Fatalf("expected member, got %v err=%v", allowed, err)
	}
	allowed, err = members.IsOriginMember(ctx, "sess-1", "other")
	if err != nil || allowed {
		t.Fatalf("expected non member for other origin, got %v err=%v", allowed, err)
	}

	if err := members.RemoveMember(ctx, "sess-1", "acme"); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	allowed, err = members.IsOriginMember(ctx, "sess-1", "acme")
	if err != nil || allowed {
		t.Fatalf("expected access revoked, got %v err=%v", allowed, err)
	}
}

func TestCachedIntegrationStore_OverSQLite(t *testing.T) {
	ctx := context.Background()
	factory := newFactory(t)
	config := repositorycache.DefaultConfig()
	config.TTL = time.Minute
	cacheService, err := repositorycache.NewCacheService(config)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	cached, err := factory.CachedIntegrationStore(cacheService)
	if err != nil {
		t.Fatalf("cached store: %v", err)
	}

	if err := cached.CreateIntegration(ctx, core.OriginIntegration{Origin: "acme", Integration: "slack", Name: "alerts", Body: "s"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	names, err := cached.ListIntegrationNames(ctx, "acme", "slack")
	if err != nil || len(names) != 1 {
		t.Fatalf("expected one cached name, got %v err=%v", names, err)
	}
	if err := cached.CreateIntegration(ctx, core.OriginIntegration{Origin: "acme", Integration: "slack", Name: "deploys", Body: "s"}); err != nil {
		t.Fatalf("create second: %v", err)
	}
	names, err = cached.ListIntegrationNames(ctx, "acme", "slack")
	if err != nil || len(names) != 2 {
		t.Fatalf("expected listing refreshed after create, got %v err=%v", names, err)
	}
}

func TestRepositoryFactory_RequiresClient(t *testing.T) {
	if _, err := sqlstore.NewRepositoryFactoryFromPersistence(nil); err == nil {
		t.Fatalf("expected nil client to fail")
	}
	if _, err := sqlstore.NewRepositoryFactoryFromDB(nil); err == nil {
		t.Fatalf("expected nil db to fail")
	}
}

func TestOpenDB_RejectsUnknownDriver(t *testing.T) {
	if _, _, err := sqlstore.OpenDB("mysql", "dsn"); err == nil {
		t.Fatalf("expected unsupported driver to fail")
	}
	if _, _, err := sqlstore.OpenDB(sqlstore.DriverSQLite, " "); err == nil {
		t.Fatalf("expected blank dsn to fail")
	}
}

func newFactory(t *testing.T) *sqlstore.RepositoryFactory {
	t.Helper()
	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(newSQLiteClient(t))
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}
	return factory
}

func newSQLiteClient(t *testing.T) *persistence.Client {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:integrations-test-%d?mode=memory&cache=shared",
		time.Now().UnixNano(),
	)
	sqlDB, dialect, err := sqlstore.OpenDB(sqlstore.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}

	client, err := persistence.New(testPersistenceConfig{driver: sqlstore.DriverSQLite, server: dsn}, sqlDB, dialect)
	if err != nil {
		_ = sqlDB.Close()
		t.Fatalf("new persistence client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := migrations.Apply(context.Background(), client, migrations.DialectSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return client
}
