package datastore

import (
	"log"
	"os"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// slowQueryThreshold marks queries worth a warning in the gorm log.
const slowQueryThreshold = time.Second

// createGormLogger configures the GORM logger. Debug mode surfaces every
// statement, otherwise only warnings and slow queries are reported.
func createGormLogger(debug bool) gormlogger.Interface {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	return gormlogger.New(
		log.New(os.Stderr, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// performAutoMigration creates or updates the schema for all entities.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&Session{}, &Event{}); err != nil {
		return dbError(err, "performing migration")
	}
	if debug {
		log.Printf("%s database connection initialized: %s", dbType, connectionInfo)
	}
	return nil
}
