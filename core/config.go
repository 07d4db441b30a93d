package core

import (
	"fmt"
	"strings"
)

const defaultMaxBodyBytes int64 = 100 * 1024

type SecurityConfig struct {
	KeyDir string `koanf:"key_dir" mapstructure:"key_dir"`
	KeyID  string `koanf:"key_id" mapstructure:"key_id"`
}

type RequestConfig struct {
	MaxBodyBytes int64 `koanf:"max_body_bytes" mapstructure:"max_body_bytes"`
}

type Config struct {
	ServiceName string         `koanf:"service_name" mapstructure:"service_name"`
	Security    SecurityConfig `koanf:"security" mapstructure:"security"`
	Request     RequestConfig  `koanf:"request" mapstructure:"request"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "integrations",
		Security: SecurityConfig{
			KeyID: "app-key",
		},
		Request: RequestConfig{
			MaxBodyBytes: defaultMaxBodyBytes,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.Request.MaxBodyBytes <= 0 {
		return fmt.Errorf("core: request.max_body_bytes must be positive")
	}
	return nil
}
