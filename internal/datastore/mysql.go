package datastore

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/proctorsight/proctor-go/internal/conf"
)

// MySQLStore implements DataStore for MySQL.
type MySQLStore struct {
	DataStore
	Settings *conf.Settings
}

// Open sets up the MySQL database connection and migrates the schema.
func (store *MySQLStore) Open() error {
	cfg := store.Settings.Output.MySQL
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: createGormLogger(store.Settings.Debug),
	})
	if err != nil {
		return fmt.Errorf("failed to open MySQL database: %w", err)
	}

	store.DB = db
	connInfo := fmt.Sprintf("%s@%s:%s/%s", cfg.Username, cfg.Host, cfg.Port, cfg.Database)
	return performAutoMigration(db, store.Settings.Debug, "MySQL", connInfo)
}
