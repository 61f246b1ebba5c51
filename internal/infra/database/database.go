package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/smartplatform/gateway/internal/infra/config"
	"github.com/smartplatform/gateway/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens the configured database and, when enabled, brings the schema
// up to date. The memory driver has no database and is rejected here.
func New(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	case config.DriverSQLite:
		// busy_timeout makes writers wait for the lock instead of failing fast.
		dialector = sqlite.Open(cfg.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Get underlying SQL DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	// Configure connection pool
	if cfg.Driver == config.DriverSQLite {
		// A single writer connection serializes ledger transactions.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if cfg.AutoMigrate {
		if err := Migrate(db, cfg.Driver); err != nil {
			_ = Close(db)
			return nil, err
		}
	}

	return db, nil
}

// Migrate brings the schema up to date. Postgres uses the versioned SQL
// migrations; SQLite uses gorm's AutoMigrate.
func Migrate(db *gorm.DB, driver string) error {
	if driver == config.DriverPostgres {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("get sql db: %w", err)
		}
		return RunMigrations(sqlDB)
	}
	if err := db.AutoMigrate(&model.AccountLedger{}, &model.UsageEvent{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Close closes the database connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
