package db

import (
	"fmt"

	"github.com/gamestaff/itemadmin/config"
	dbmysql "github.com/gamestaff/itemadmin/db/mysql"
	dbsqlite "github.com/gamestaff/itemadmin/db/sqlite"
	"gorm.io/gorm"
)

const (
	ModeSQLite = "sqlite"
	ModeMySQL  = "mysql"
)

// Open returns a *gorm.DB for the configured database mode.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Mode {
	case ModeSQLite:
		return dbsqlite.Open(cfg.SQLitePath)
	case ModeMySQL:
		dsn := dbmysql.DSN(cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password)
		return dbmysql.Open(dsn, cfg.MaxOpen, cfg.MaxIdle, cfg.MaxLife)
	default:
		return nil, fmt.Errorf("db: unknown mode %q", cfg.Mode)
	}
}

// LikeOperator returns the operator that performs a case-sensitive LIKE on
// the given connection. SQLite connections opened by this package already
// have case_sensitive_like enabled.
func LikeOperator(db *gorm.DB) string {
	if db.Dialector.Name() == ModeMySQL {
		return "LIKE BINARY"
	}
	return "LIKE"
}
