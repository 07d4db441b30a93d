// Command integrationsd serves the origin integrations API backed by a SQL
// record store.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	integrations "github.com/goliatone/go-integrations"
	"github.com/goliatone/go-integrations/adapters/gocommand"
	"github.com/goliatone/go-integrations/backend"
	"github.com/goliatone/go-integrations/core"
	"github.com/goliatone/go-integrations/httpapi"
	"github.com/goliatone/go-integrations/migrations"
	"github.com/goliatone/go-integrations/security"
	sqlstore "github.com/goliatone/go-integrations/store/sql"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
	glog "github.com/goliatone/go-logger/glog"
	persistence "github.com/goliatone/go-persistence-bun"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

func main() {
	logger := newLogger("integrationsd")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Fatal("integrationsd stopped", "error", err)
	}
}

func run(ctx context.Context, logger *slogLogger) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	app, err := newApp(ctx, cfg, slogProvider{root: logger})
	if err != nil {
		return err
	}
	defer app.Close()

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("integrationsd listening", "addr", cfg.ListenAddr, "driver", cfg.Persistence.Driver)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("integrationsd shutting down")
		return server.Shutdown(shutdownCtx)
	}
}

// app is the wired daemon: record store, backend handlers, gateway and routes.
type app struct {
	handler http.Handler
	members *sqlstore.MembershipStore
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func newApp(ctx context.Context, cfg *Config, provider glog.LoggerProvider) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	sqlDB, dialect, err := sqlstore.OpenDB(cfg.Persistence.Driver, cfg.Persistence.DSN)
	if err != nil {
		return nil, err
	}
	client, err := persistence.New(cfg.Persistence, sqlDB, dialect)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("integrationsd: persistence client: %w", err)
	}
	a.closers = append(a.closers, func() { _ = client.Close() })

	if err := migrations.Apply(ctx, client, cfg.MigrationDialect()); err != nil {
		return nil, err
	}

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		return nil, err
	}
	cacheConfig := repositorycache.DefaultConfig()
	cacheConfig.TTL = cfg.Cache.TTL()
	cacheService, err := repositorycache.NewCacheService(cacheConfig)
	if err != nil {
		return nil, fmt.Errorf("integrationsd: cache service: %w", err)
	}
	records, err := factory.CachedIntegrationStore(cacheService,
		sqlstore.WithCachedStoreLogger(provider.GetLogger("sqlstore")))
	if err != nil {
		return nil, err
	}
	a.members = factory.MembershipStore()

	registration, err := backend.Register(gocommand.NewCommandRegistry(nil), backend.Stores{
		Integrations: records,
		Names:        records,
		Members:      a.members,
	},
		backend.WithQueueRegistry(jobqueuecommand.NewRegistry()),
		backend.WithLoggerProvider(provider),
	)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, registration.Close)

	encryptor, err := newEncryptor(cfg.Gateway.Security, cfg.AppKey)
	if err != nil {
		return nil, err
	}
	gateway, err := integrations.NewDispatcherGateway(cfg.Gateway, encryptor,
		core.WithLoggerProvider(provider),
	)
	if err != nil {
		return nil, err
	}

	a.handler = httpapi.New(gateway,
		httpapi.WithLogger(provider.GetLogger("httpapi")),
		httpapi.WithMaxBodyBytes(gateway.Config().Request.MaxBodyBytes),
	)
	return a, nil
}

// newEncryptor prefers a key directory, falling back to a single app key.
func newEncryptor(cfg core.SecurityConfig, appKey string) (core.Encryptor, error) {
	if strings.TrimSpace(cfg.KeyDir) != "" {
		return security.NewKeyDirSecretProvider(cfg.KeyDir)
	}
	if strings.TrimSpace(appKey) == "" {
		return nil, fmt.Errorf("integrationsd: %sAPP_KEY or %sGATEWAY__SECURITY__KEY_DIR is required", envPrefix, envPrefix)
	}
	return security.NewAppKeySecretProviderFromString(appKey, security.WithKeyID(cfg.KeyID))
}
