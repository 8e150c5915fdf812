package testutil

import (
	"path/filepath"
	"testing"

	"github.com/gamestaff/itemadmin/cache"
	"github.com/gamestaff/itemadmin/config"
	dbadapter "github.com/gamestaff/itemadmin/db"
	"github.com/gamestaff/itemadmin/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SetupTestDB creates a SQLite database in a per-test temp dir and migrates
// the given tables. It requires no external services.
func SetupTestDB(t *testing.T, tables ...model.Table) *gorm.DB {
	t.Helper()
	db, err := dbadapter.Open(config.DatabaseConfig{
		Mode:       dbadapter.ModeSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err, "SetupTestDB: Open")
	require.NoError(t, model.AutoMigrate(db, tables...), "SetupTestDB: AutoMigrate")
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SetupTestCache creates a LocalCache (no Redis required).
func SetupTestCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.NewCache(cache.CacheConfig{}) // empty RedisAddr → LocalCache
	require.NoError(t, err, "SetupTestCache: NewCache")
	return c
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
