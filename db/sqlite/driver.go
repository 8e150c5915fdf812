package sqlite

import (
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open creates a GORM *DB backed by a SQLite file. LIKE is switched to
// case-sensitive matching so searches behave like the MySQL deployment.
func Open(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// PRAGMAs are per connection; a single connection keeps them in effect.
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA case_sensitive_like = ON").Error; err != nil {
		return nil, err
	}
	return db, nil
}
