package database

import (
	"fmt"

	"card-bookmark-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options describes how to reach the card store.
type Options struct {
	// DSN is the connection descriptor; for SQLite a file path or URI.
	DSN          string
	MaxOpenConns int
	LogLevel     logger.LogLevel
}

// Open initializes the database connection and runs migrations
func Open(opts Options) (*gorm.DB, error) {
	// glebarez/sqlite is a pure Go implementation (no CGO required)
	db, err := gorm.Open(sqlite.Open(opts.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(opts.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}

	if err := Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the cards table if it does not exist yet.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Card{}); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
