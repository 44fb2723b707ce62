package journal

import (
	"fmt"

	"pointerapp/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultDSN keeps the journal in memory; it never outlives the process
const DefaultDSN = ":memory:"

type DB struct {
	*gorm.DB
}

func Connect(dsn string) (*DB, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// Every connection to :memory: is a separate database, so keep exactly one
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &DB{db}, nil
}

func (db *DB) Initialize() error {
	err := db.AutoMigrate(&models.IdleEpisode{})
	if err != nil {
		return fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	return nil
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
