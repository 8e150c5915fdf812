package model

import "gorm.io/gorm"

// Table pairs a configured table name with the model describing its columns.
type Table struct {
	Name  string
	Model interface{}
}

// AutoMigrate creates or updates the given tables. Only used for SQLite
// deployments and tests; the MySQL schema belongs to the game server.
func AutoMigrate(db *gorm.DB, tables ...Table) error {
	for _, t := range tables {
		if err := db.Table(t.Name).AutoMigrate(t.Model); err != nil {
			return err
		}
	}
	return nil
}
