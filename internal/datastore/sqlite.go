package datastore

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/proctorsight/proctor-go/internal/conf"
)

// SQLiteStore implements DataStore for SQLite.
type SQLiteStore struct {
	DataStore
	Settings *conf.Settings
}

// Open sets up the SQLite database connection and migrates the schema.
func (store *SQLiteStore) Open() error {
	path := store.Settings.Output.SQLite.Path
	if path == "" {
		return fmt.Errorf("sqlite path is not configured")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: createGormLogger(store.Settings.Debug),
	})
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}

	store.DB = db
	return performAutoMigration(db, store.Settings.Debug, "SQLite", path)
}
