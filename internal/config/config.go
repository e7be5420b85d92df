package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DataSourceBackend  = "backend"
	DataSourcePostgres = "postgres"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	Backend   BackendConfig
	Timesheet TimesheetConfig
	Cron      CronConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	Timezone    string
	CORSOrigins []string
}

// BackendConfig describes the upstream REST backend
type BackendConfig struct {
	URL                string
	Timeout            time.Duration
	BreakerMaxRequests uint32
	BreakerInterval    time.Duration
	BreakerTimeout     time.Duration
}

// TimesheetConfig holds the computation settings
type TimesheetConfig struct {
	DataSource           string
	DefaultExpectedHours float64
	OvernightPolicy      string
	SnapshotRetention    time.Duration
}

// CronConfig holds background job intervals
type CronConfig struct {
	SnapshotPruneInterval time.Duration
	TokenPurgeInterval    time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded, using process environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "timesheet"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Timezone:    getEnv("APP_TIMEZONE", "Europe/Berlin"),
		CORSOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	// Upstream backend configuration
	backendTimeout, err := getEnvDuration("BACKEND_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	breakerInterval, err := getEnvDuration("BACKEND_BREAKER_INTERVAL", "60s")
	if err != nil {
		return nil, err
	}
	breakerTimeout, err := getEnvDuration("BACKEND_BREAKER_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	breakerMax, err := strconv.ParseUint(getEnv("BACKEND_BREAKER_MAX_REQUESTS", "5"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid BACKEND_BREAKER_MAX_REQUESTS: %w", err)
	}

	config.Backend = BackendConfig{
		URL:                getEnv("BACKEND_URL", ""),
		Timeout:            backendTimeout,
		BreakerMaxRequests: uint32(breakerMax),
		BreakerInterval:    breakerInterval,
		BreakerTimeout:     breakerTimeout,
	}

	// Timesheet configuration
	expectedHours, err := strconv.ParseFloat(getEnv("DEFAULT_EXPECTED_HOURS", "8"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_EXPECTED_HOURS: %w", err)
	}
	retention, err := getEnvDuration("SNAPSHOT_RETENTION", "2h")
	if err != nil {
		return nil, err
	}

	config.Timesheet = TimesheetConfig{
		DataSource:           strings.ToLower(getEnv("DATA_SOURCE", DataSourceBackend)),
		DefaultExpectedHours: expectedHours,
		OvernightPolicy:      getEnv("OVERNIGHT_POLICY", "truncate"),
		SnapshotRetention:    retention,
	}

	// Background jobs
	pruneEvery, err := getEnvDuration("CRON_SNAPSHOT_PRUNE_INTERVAL", "15m")
	if err != nil {
		return nil, err
	}
	purgeEvery, err := getEnvDuration("CRON_TOKEN_PURGE_INTERVAL", "1h")
	if err != nil {
		return nil, err
	}

	config.Cron = CronConfig{
		SnapshotPruneInterval: pruneEvery,
		TokenPurgeInterval:    purgeEvery,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.Timesheet.DefaultExpectedHours < 0 || c.Timesheet.DefaultExpectedHours > 24 {
		return errors.New("DEFAULT_EXPECTED_HOURS must be between 0 and 24")
	}

	switch c.Timesheet.DataSource {
	case DataSourceBackend:
		if c.Backend.URL == "" {
			return errors.New("BACKEND_URL is required when DATA_SOURCE=backend")
		}
	case DataSourcePostgres:
		if c.Database.Password == "" {
			return errors.New("DB_PASSWORD is required when DATA_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("DATA_SOURCE must be %q or %q", DataSourceBackend, DataSourcePostgres)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the configured time zone. Validate has checked it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}

func getEnvDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
