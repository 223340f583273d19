package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server   ServerConfig
	App      AppConfig
	Cache    CacheConfig
	Database DatabaseConfig
	Accounts AccountsDBConfig
	Limits   LimitsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"lumo-assistant-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// CacheConfig holds key-value cache settings.
type CacheConfig struct {
	Type string `envconfig:"CACHE_TYPE" default:"redis"` // redis or memory

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Reconnect supervision. Once both budgets are spent the cache
	// stays off for the rest of the process lifetime.
	ReconnectAttempts int           `envconfig:"CACHE_RECONNECT_ATTEMPTS" default:"10"`
	ReconnectElapsed  time.Duration `envconfig:"CACHE_RECONNECT_ELAPSED" default:"2m"`
	ProbeInterval     time.Duration `envconfig:"CACHE_PROBE_INTERVAL" default:"15s"`
}

// DatabaseConfig holds the SQLite primary store settings.
type DatabaseConfig struct {
	Path string `envconfig:"DB_PATH" default:"./data/assistant.db"`
}

// AccountsDBConfig holds the optional MySQL user directory settings.
type AccountsDBConfig struct {
	Enabled  bool   `envconfig:"ACCOUNTS_DB_ENABLED" default:"false"`
	Host     string `envconfig:"ACCOUNTS_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"ACCOUNTS_DB_PORT" default:"3306"`
	Name     string `envconfig:"ACCOUNTS_DB_NAME" default:"lumo"`
	User     string `envconfig:"ACCOUNTS_DB_USER" default:"root"`
	Password string `envconfig:"ACCOUNTS_DB_PASS" default:""`
}

// LimitsConfig holds per-actor rate limit thresholds.
type LimitsConfig struct {
	EmailPerHour  int64 `envconfig:"LIMIT_EMAIL_PER_HOUR" default:"50"`
	ChatPerMinute int64 `envconfig:"LIMIT_CHAT_PER_MINUTE" default:"30"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// DSN returns the MySQL data source name for the accounts directory.
func (a *AccountsDBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		a.User, a.Password, a.Host, a.Port, a.Name)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
