package api

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/exampleco/orders-api/internal/platform/database"
	"github.com/exampleco/orders-api/internal/platform/observability"
)

// Config carries environment-driven settings for the API processes.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	// TraceExporter is otlp, stdout or none. The OTLP endpoint is read by
	// the exporter from OTEL_EXPORTER_OTLP_ENDPOINT.
	TraceExporter string `envconfig:"TRACE_EXPORTER" default:"otlp"`

	DBDriver      string `envconfig:"DB_DRIVER" default:"mysql"`
	DBHost        string `envconfig:"DB_HOST" default:"localhost"`
	DBPort        string `envconfig:"DB_PORT"`
	DBUser        string `envconfig:"DB_USER"`
	DBPassword    string `envconfig:"DB_PASSWORD"`
	DBName        string `envconfig:"DB_NAME" default:"db"`
	DBDSN         string `envconfig:"DB_DSN"`
	DBLogLevel    string `envconfig:"DB_LOG_LEVEL" default:"warn"`
	DBAutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`

	// ServicesSeedFile is loaded into the in-memory catalogue when no
	// database is configured.
	ServicesSeedFile string `envconfig:"SERVICES_SEED_FILE"`
	StatsActiveOnly  bool   `envconfig:"STATS_ACTIVE_ONLY" default:"false"`
	LambdaHandler    string `envconfig:"LAMBDA_HANDLER"`
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown drivers, log levels and trace exporters.
func (c Config) Validate() error {
	switch c.DBDriver {
	case database.DriverMySQL, database.DriverPostgres:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", database.DriverMySQL, database.DriverPostgres, c.DBDriver)
	}
	if _, err := observability.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if err := observability.ValidateTraceExporter(c.TraceExporter); err != nil {
		return fmt.Errorf("TRACE_EXPORTER: %w", err)
	}
	if _, err := database.ParseLogLevel(c.DBLogLevel); err != nil {
		return fmt.Errorf("DB_LOG_LEVEL: %w", err)
	}
	return nil
}

// DatabaseConfigured reports whether a relational store should be used.
// Without DB_DSN or DB_USER the process runs on in-memory repositories.
func (c Config) DatabaseConfigured() bool {
	return strings.TrimSpace(c.DBDSN) != "" || strings.TrimSpace(c.DBUser) != ""
}

// DatabaseOptions resolves the connection options, preferring DB_DSN.
func (c Config) DatabaseOptions() (database.Options, error) {
	dsn := strings.TrimSpace(c.DBDSN)
	if dsn == "" {
		built, err := database.DSN(c.DBDriver, database.Params{
			Host:     c.DBHost,
			Port:     c.DBPort,
			User:     c.DBUser,
			Password: c.DBPassword,
			Name:     c.DBName,
		})
		if err != nil {
			return database.Options{}, err
		}
		dsn = built
	}
	return database.Options{Driver: c.DBDriver, DSN: dsn, LogLevel: c.DBLogLevel}, nil
}

// ObservabilityOptions maps the logging and tracing settings.
func (c Config) ObservabilityOptions() observability.Options {
	return observability.Options{
		Environment:   c.Environment,
		LogLevel:      c.LogLevel,
		TraceExporter: c.TraceExporter,
	}
}
