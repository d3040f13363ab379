package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"journal_backend/internal/feature/journal/adapters"
	"journal_backend/internal/feature/journal/usecase"
)

// setupEnv points the tool at a fresh, migrated sqlite file and returns its path.
func setupEnv(t *testing.T) string {
	t.Helper()
	mr := miniredis.RunT(t)
	path := filepath.Join(t.TempDir(), "journal.db")
	t.Setenv("STORE_BACKEND", "sql")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", path)
	t.Setenv("RUN_MIGRATIONS", "true")
	t.Setenv("REDIS_HOST", mr.Host())
	t.Setenv("REDIS_PORT", mr.Port())
	return path
}

func TestRun_Healthy(t *testing.T) {
	setupEnv(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--env", ""}, &out))

	var report usecase.IntegrityReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.True(t, report.Healthy())
}

func TestRun_ReportsOrphan(t *testing.T) {
	path := setupEnv(t)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, adapters.Migrate(db))
	require.NoError(t, db.Create(&adapters.EntryModel{ID: "orphan-1", Title: "lost", CreatedAt: time.Now()}).Error)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	var out bytes.Buffer
	err = run(context.Background(), []string{"--env", ""}, &out)
	require.ErrorIs(t, err, errViolations)

	var report usecase.IntegrityReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Len(t, report.Violations, 1)
	assert.Equal(t, usecase.ViolationOrphan, report.Violations[0].Kind)
	assert.Equal(t, "orphan-1", report.Violations[0].EntryID)
}

func TestRun_UnreachableBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_HOST", "127.0.0.1")
	t.Setenv("REDIS_PORT", "1")

	var out bytes.Buffer
	assert.Error(t, run(context.Background(), []string{"--env", "", "--timeout", "2s"}, &out))
}
