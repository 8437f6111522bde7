// Package database opens the shared GORM connection pool for MySQL or
// PostgreSQL. All sessions run in UTC with READ COMMITTED isolation.
package database

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Options selects the driver and connection string for Connect.
type Options struct {
	Driver   string
	DSN      string
	LogLevel string
}

// Params are the individual connection settings used when no full DSN is given.
type Params struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Connect opens a connection via GORM and verifies connectivity.
func Connect(ctx context.Context, opts Options) (*gorm.DB, error) {
	if strings.TrimSpace(opts.DSN) == "" {
		return nil, fmt.Errorf("%s DSN is empty", opts.Driver)
	}
	level, err := ParseLogLevel(opts.LogLevel)
	if err != nil {
		return nil, err
	}
	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverMySQL:
		dialector = gormmysql.Open(opts.DSN)
	case DriverPostgres:
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		NowFunc:        Now,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Now is the clock used for autoCreateTime and autoUpdateTime columns.
// DATETIME columns hold whole seconds, so the value is truncated.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// DSN builds the connection string for driver from individual parameters.
func DSN(driver string, p Params) (string, error) {
	switch driver {
	case DriverMySQL:
		return MySQLDSN(p), nil
	case DriverPostgres:
		return PostgresDSN(p), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// MySQLDSN formats a go-sql-driver DSN that parses DATETIME into UTC
// time.Time and pins the session time zone and isolation level.
func MySQLDSN(p Params) string {
	cfg := gomysql.NewConfig()
	cfg.User = p.User
	cfg.Passwd = p.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(p.Host, portOrDefault(p.Port, "3306"))
	cfg.DBName = p.Name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{
		"charset":               "utf8mb4",
		"time_zone":             "'+00:00'",
		"transaction_isolation": "'READ-COMMITTED'",
	}
	return cfg.FormatDSN()
}

// PostgresDSN formats a key/value DSN for pgx.
func PostgresDSN(p Params) string {
	parts := []string{
		"host=" + quoteValue(p.Host),
		"port=" + portOrDefault(p.Port, "5432"),
		"user=" + quoteValue(p.User),
		"dbname=" + quoteValue(p.Name),
		"sslmode=prefer",
		"TimeZone=UTC",
		"default_transaction_isolation='read committed'",
	}
	if p.Password != "" {
		parts = append(parts, "password="+quoteValue(p.Password))
	}
	return strings.Join(parts, " ")
}

// ParseLogLevel maps silent, error, warn and info to the GORM logger levels.
// An empty value means warn.
func ParseLogLevel(raw string) (gormlogger.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "silent":
		return gormlogger.Silent, nil
	case "error":
		return gormlogger.Error, nil
	case "", "warn":
		return gormlogger.Warn, nil
	case "info":
		return gormlogger.Info, nil
	default:
		return 0, fmt.Errorf("unknown database log level %q", raw)
	}
}

func portOrDefault(port, fallback string) string {
	if strings.TrimSpace(port) == "" {
		return fallback
	}
	return port
}

func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
