// Package db opens the SQL database used by the journal stores.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	connectTimeout = 60 * time.Second
	retryInterval  = 3 * time.Second
)

// Config holds database connection settings.
type Config struct {
	Driver        string
	User          string
	Password      string
	Name          string
	Host          string
	Port          string
	SSLMode       string
	SQLitePath    string
	RunMigrations bool
}

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// LoadConfigFromEnv reads DB_* variables. DB_DRIVER defaults to postgres.
func LoadConfigFromEnv() Config {
	cfg := Config{
		Driver:        strings.ToLower(os.Getenv("DB_DRIVER")),
		User:          os.Getenv("DB_USER"),
		Password:      os.Getenv("DB_PASSWORD"),
		Name:          os.Getenv("DB_NAME"),
		Host:          os.Getenv("DB_HOST"),
		Port:          os.Getenv("DB_PORT"),
		SSLMode:       os.Getenv("DB_SSLMODE"),
		SQLitePath:    os.Getenv("SQLITE_PATH"),
		RunMigrations: os.Getenv("RUN_MIGRATIONS") == "true",
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverPostgres
	}
	return cfg
}

// BuildDSN renders the connection string for cfg.Driver.
func BuildDSN(cfg Config) string {
	if cfg.Driver == DriverSQLite {
		if cfg.SQLitePath == "" {
			return "journal.db"
		}
		return cfg.SQLitePath
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	port := cfg.Port
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, port, sslmode)
}

// NewOpener returns an Opener for the configured driver.
func NewOpener(cfg Config) (Opener, error) {
	gcfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
	switch cfg.Driver {
	case DriverPostgres:
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(postgres.Open(dsn), gcfg) }, nil
	case DriverSQLite:
		return func(dsn string) (*gorm.DB, error) {
			db, err := gorm.Open(sqlite.Open(dsn), gcfg)
			if err != nil {
				return nil, err
			}
			// sqlite serialises writers; one connection avoids SQLITE_BUSY inside transactions
			sqlDB, err := db.DB()
			if err != nil {
				return nil, err
			}
			sqlDB.SetMaxOpenConns(1)
			return db, nil
		}, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// Open connects using cfg, retrying for up to a minute while the database starts.
func Open(cfg Config) (*gorm.DB, error) {
	opener, err := NewOpener(cfg)
	if err != nil {
		return nil, err
	}
	return ConnectWithRetry(BuildDSN(cfg), connectTimeout, opener)
}

// ConnectWithRetry calls opener until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	return connectWithRetry(dsn, timeout, retryInterval, opener)
}

func connectWithRetry(dsn string, timeout, interval time.Duration, opener Opener) (*gorm.DB, error) {
	var db *gorm.DB
	backoff := retry.WithMaxDuration(timeout, retry.NewConstant(interval))
	err := retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		conn, err := opener(dsn)
		if err != nil {
			slog.Warn("DB connect failed, retrying", "error", err)
			return retry.RetryableError(err)
		}
		db = conn
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
	}
	return db, nil
}

// Ping checks that the underlying connection pool can reach the database.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
