package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-config/config"
	"github.com/goliatone/go-integrations/core"
	sqlstore "github.com/goliatone/go-integrations/store/sql"
)

const (
	envPrefix    = "INTEGRATIONS_"
	envDelimiter = "__"
)

type PersistenceConfig struct {
	Driver string `koanf:"driver" mapstructure:"driver"`
	DSN    string `koanf:"dsn" mapstructure:"dsn"`
	Debug  bool   `koanf:"debug" mapstructure:"debug"`
}

func (c PersistenceConfig) GetDebug() bool                { return c.Debug }
func (c PersistenceConfig) GetDriver() string             { return c.Driver }
func (c PersistenceConfig) GetServer() string             { return c.DSN }
func (c PersistenceConfig) GetPingTimeout() time.Duration { return 5 * time.Second }
func (c PersistenceConfig) GetOtelIdentifier() string     { return "go-integrations" }

type CacheConfig struct {
	TTLSeconds int `koanf:"ttl_seconds" mapstructure:"ttl_seconds"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Config is the daemon configuration. Gateway holds the settings handed to
// core.NewGateway. AppKey is only read when no key directory is configured.
type Config struct {
	ListenAddr  string            `koanf:"listen_addr" mapstructure:"listen_addr"`
	Persistence PersistenceConfig `koanf:"persistence" mapstructure:"persistence"`
	Cache       CacheConfig       `koanf:"cache" mapstructure:"cache"`
	Gateway     core.Config       `koanf:"gateway" mapstructure:"gateway"`
	AppKey      string            `koanf:"app_key" mapstructure:"app_key"`
}

func DefaultConfig() Config {
	return Config{
		ListenAddr: ":8080",
		Persistence: PersistenceConfig{
			Driver: sqlstore.DriverSQLite,
			DSN:    "file:integrations.db?cache=shared",
		},
		Cache:   CacheConfig{TTLSeconds: 30},
		Gateway: core.DefaultConfig(),
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return fmt.Errorf("integrationsd: listen_addr is required")
	}
	switch c.Persistence.Driver {
	case sqlstore.DriverPostgres, sqlstore.DriverSQLite:
	default:
		return fmt.Errorf("integrationsd: unsupported persistence driver %q", c.Persistence.Driver)
	}
	if strings.TrimSpace(c.Persistence.DSN) == "" {
		return fmt.Errorf("integrationsd: persistence.dsn is required")
	}
	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("integrationsd: cache.ttl_seconds must be positive")
	}
	return c.Gateway.Validate()
}

// MigrationDialect maps the driver name onto the migrations dialect.
func (c Config) MigrationDialect() string {
	if c.Persistence.Driver == sqlstore.DriverPostgres {
		return "postgres"
	}
	return "sqlite"
}

// loadConfig reads INTEGRATIONS_* variables over the defaults. Nested keys use
// a double underscore, INTEGRATIONS_GATEWAY__SECURITY__KEY_DIR sets
// gateway.security.key_dir.
func loadConfig(ctx context.Context) (*Config, error) {
	cfg := DefaultConfig()
	container := config.New(&cfg).
		WithProvider(config.EnvProvider[*Config](envPrefix, envDelimiter)).
		WithNormalizer(normalizeDriver)
	if err := container.Load(ctx); err != nil {
		return nil, fmt.Errorf("integrationsd: load config: %w", err)
	}
	return container.Raw(), nil
}

func normalizeDriver(cfg *Config) error {
	driver := strings.ToLower(strings.TrimSpace(cfg.Persistence.Driver))
	if driver == "sqlite" {
		driver = sqlstore.DriverSQLite
	}
	cfg.Persistence.Driver = driver
	return nil
}
