// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env`
// file when present), loads them into structured Go types and
// validates that required values are present so the service
// fails fast on a bad deployment.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into nested config structs.
//   - Validate required values.
//   - Provide defaults for optional blocks (observability, dashboard, console).
package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process env before we read it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

/*
	Env vars are read with the RENTALDESK_ prefix, lowercased, and the "."
	in the remaining name is the nesting delimiter:

	  RENTALDESK_SERVER.PORT       -> server.port       -> Config.Server.Port
	  RENTALDESK_DATABASE.SSL_MODE -> database.ssl_mode -> Config.Database.SSLMode
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "RENTALDESK_"

// ServiceName tags logs and New Relic data for this service.
const ServiceName = "rentaldesk"

// Config is the root configuration object for the application.
//
// Observability is a pointer because the whole block is optional;
// defaults are injected when it is missing.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Dashboard     DashboardConfig      `koanf:"dashboard"`
	Console       ConsoleConfig        `koanf:"console"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are whole seconds. RateLimit is requests per second per client
// IP on the /api group; 0 turns the limiter off.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
	RateLimit          float64  `koanf:"rate_limit" validate:"min=0"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
//
// ConnMaxLifetime and ConnMaxIdleTime are seconds.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details ("host:port").
// Redis backs the dashboard cache and the background job queue.
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// DashboardConfig tunes the read-only aggregate endpoints.
type DashboardConfig struct {
	// CacheTTL is how long aggregates stay in Redis. 0 disables caching.
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"min=0"`

	// TopLimit is the default row count for the ranked lists.
	TopLimit int `koanf:"top_limit" validate:"min=0,max=100"`
}

// ConsoleConfig controls the SQL console.
type ConsoleConfig struct {
	// AuditEnabled records every executed statement in console_audit.
	AuditEnabled bool `koanf:"audit_enabled"`
}

const (
	defaultDashboardCacheTTL = 30 * time.Second
	defaultDashboardTopLimit = 20
)

// LoadConfig loads configuration from environment variables, validates it,
// applies defaults and returns it.
//
// Like the rest of startup it treats bad config as fatal: every failure is
// logged and the process exits.
func LoadConfig() (*Config, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	k := koanf.New(".")

	// Only RENTALDESK_* variables are read; the prefix is stripped and the
	// rest lowercased so "RENTALDESK_SERVER.PORT" lands on "server.port".
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load initial env variables")
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not unmarshal main config")
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("config validation failed")
	}

	mainConfig.applyDefaults()

	if err := mainConfig.Observability.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid observability config")
	}

	return mainConfig, nil
}

// applyDefaults fills optional blocks that were left unset.
//
// Service name and environment on the observability block always follow
// the primary config so logs and traces agree on naming.
func (c *Config) applyDefaults() {
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}
	c.Observability.ServiceName = ServiceName
	c.Observability.Environment = c.Primary.Env

	if c.Dashboard.CacheTTL == 0 && !c.dashboardCacheDisabled() {
		c.Dashboard.CacheTTL = defaultDashboardCacheTTL
	}
	if c.Dashboard.TopLimit == 0 {
		c.Dashboard.TopLimit = defaultDashboardTopLimit
	}
}

// dashboardCacheDisabled reports whether caching was turned off explicitly
// (RENTALDESK_DASHBOARD.CACHE_TTL=0) rather than left unset.
func (c *Config) dashboardCacheDisabled() bool {
	v, ok := os.LookupEnv(EnvPrefix + "DASHBOARD.CACHE_TTL")
	return ok && strings.TrimSpace(v) != "" && c.Dashboard.CacheTTL == 0
}
