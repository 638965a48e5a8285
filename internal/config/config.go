// Package config loads service configuration from the environment.
//
// Variables use the PRODUCT_ prefix and a double underscore for nesting, so
// PRODUCT_DATABASE__HOST maps to database.host. A `.env` file in the working
// directory is loaded first when present.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "PRODUCT_"

// Config is the root configuration object for the service
type Config struct {
	Service  ServiceConfig  `koanf:"service" validate:"required"`
	Server   ServerConfig   `koanf:"server" validate:"required"`
	CORS     CORSConfig     `koanf:"cors"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Tracing  TracingConfig  `koanf:"tracing"`
}

type ServiceConfig struct {
	Name        string `koanf:"name" validate:"required"`
	Environment string `koanf:"environment" validate:"required"`
	LogLevel    string `koanf:"log_level" validate:"oneof=debug info warn error"`
}

// IsDevelopment reports whether the service runs in the development environment
func (s ServiceConfig) IsDevelopment() bool {
	return s.Environment == "development"
}

type ServerConfig struct {
	Port            string        `koanf:"port" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	RequestTimeout  time.Duration `koanf:"request_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins" validate:"required,min=1"`
}

// DatabaseConfig selects the storage driver. Connection fields are only
// required for postgres.
type DatabaseConfig struct {
	Driver          string        `koanf:"driver" validate:"oneof=postgres memory"`
	Host            string        `koanf:"host" validate:"required_if=Driver postgres"`
	Port            int           `koanf:"port" validate:"required_if=Driver postgres"`
	User            string        `koanf:"user" validate:"required_if=Driver postgres"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name" validate:"required_if=Driver postgres"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

type TracingConfig struct {
	Enabled        bool   `koanf:"enabled"`
	JaegerEndpoint string `koanf:"jaeger_endpoint" validate:"required_if=Enabled true"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"service.name":               "product-service",
		"service.environment":        "development",
		"service.log_level":          "info",
		"server.port":                "8081",
		"server.read_timeout":        "15s",
		"server.write_timeout":       "15s",
		"server.idle_timeout":        "60s",
		"server.request_timeout":     "30s",
		"server.shutdown_timeout":    "10s",
		"cors.allowed_origins":       []string{"http://localhost:3000", "https://localhost:44326"},
		"database.driver":            "postgres",
		"database.host":              "localhost",
		"database.port":              5432,
		"database.user":              "postgres",
		"database.password":          "postgres",
		"database.name":              "productdb",
		"database.ssl_mode":          "disable",
		"database.max_open_conns":    25,
		"database.max_idle_conns":    5,
		"database.conn_max_lifetime": "5m",
		"tracing.enabled":            false,
		"tracing.jaeger_endpoint":    "http://localhost:14268/api/traces",
	}
}

// envKey turns PRODUCT_DATABASE__HOST into database.host
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
}

// Load reads defaults, then the environment, and validates the result
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	err := k.Load(env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = envKey(key)
		if key == "cors.allowed_origins" {
			return key, splitList(value)
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func splitList(value string) []string {
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
