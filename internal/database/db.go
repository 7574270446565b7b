package database

import (
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL dialect
	_ "github.com/jinzhu/gorm/dialects/sqlite"   // SQLite dialect
	"github.com/pkg/errors"

	"canteen/internal/models"
)

// InitDB opens the configured database connection. SQLite is the default
// for single-site deployments; Postgres is available for shared setups.
func InitDB(dialect, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", dialect)
	}

	db.DB().SetMaxIdleConns(10)
	db.DB().SetMaxOpenConns(100)
	db.DB().SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Migrate creates or updates the schema for all order tracking tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.StaffMember{},
		&models.OrderRecord{},
	).Error
}

// CloseDB closes the database connection.
func CloseDB(db *gorm.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}
