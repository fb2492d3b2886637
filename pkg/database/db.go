package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arnavshah/rota-api-go/pkg/config"
)

// StorageEntry represents the app_storage table: opaque JSON values under fixed keys
type StorageEntry struct {
	Key       string    `gorm:"primaryKey;size:128" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the historical table name
func (StorageEntry) TableName() string {
	return "app_storage"
}

// AccessPin represents the access_pins table
type AccessPin struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Label     string    `gorm:"unique;not null" json:"label"`
	PinHash   string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// InitDB opens Postgres when a DSN is configured, SQLite otherwise, and
// migrates the schema.
func InitDB(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	var (
		db  *gorm.DB
		err error
	)
	if cfg.DSN != "" {
		log.Info("connecting to postgres")
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		}), gormCfg)
	} else {
		log.Info("opening sqlite database", zap.String("path", cfg.Path))
		db, err = OpenSQLite(cfg.Path, gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenSQLite opens a SQLite database. ":memory:" databases are pinned to a
// single connection so every query sees the same data.
func OpenSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	}
	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates or updates the schema
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&StorageEntry{}, &AccessPin{}); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}
