package di

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"journal_backend/internal/app/config"
	"journal_backend/internal/feature/journal/adapters"
	"journal_backend/internal/platform/db"
	"journal_backend/internal/platform/http/handler"
	platformredis "journal_backend/internal/platform/redis"
)

// Infra holds the opened connections. Either may be nil when not configured.
type Infra struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// OpenInfra opens what the configured backend needs. For the sql backend Redis is
// optional and only backs the weather cache.
func OpenInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{}

	if cfg.StoreBackend == config.BackendSQL {
		conn, err := db.Open(cfg.DB)
		if err != nil {
			return nil, err
		}
		infra.DB = conn
		if cfg.DB.RunMigrations {
			if err := adapters.Migrate(conn); err != nil {
				_ = infra.Close()
				return nil, err
			}
			slog.Info("database migrated")
		}
	}

	rdb, err := platformredis.NewRedisClient(ctx, cfg.Redis)
	switch {
	case err == nil:
		infra.Redis = rdb
	case cfg.StoreBackend == config.BackendRedis:
		_ = infra.Close()
		return nil, err
	default:
		slog.Warn("Redis unavailable; running without weather cache", "error", err)
	}
	return infra, nil
}

// Checks returns the readiness probes for the open connections.
func (i *Infra) Checks() map[string]handler.Check {
	checks := map[string]handler.Check{}
	if i.DB != nil {
		checks["database"] = func(ctx context.Context) error { return db.Ping(ctx, i.DB) }
	}
	if i.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return i.Redis.Ping(ctx).Err() }
	}
	return checks
}

// Close releases every open connection.
func (i *Infra) Close() error {
	var errs []error
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	if i.DB != nil {
		if sqlDB, err := i.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
