package migration

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bakeryaid/backend/internal/infrastructure/config"
	"github.com/bakeryaid/backend/internal/infrastructure/persistence/models"
)

// AutoMigrate brings the schema up to date at startup.
// PostgreSQL runs the embedded SQL migrations on a dedicated connection;
// SQLite uses gorm AutoMigrate followed by the catalog seed.
func AutoMigrate(ctx context.Context, db *gorm.DB, cfg config.DatabaseConfig, logger *zap.Logger) error {
	logger = orNop(logger)

	if cfg.Driver == config.DriverSQLite {
		return migrateSQLite(ctx, db, logger)
	}

	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	m, err := New(sqlDB, logger)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.Warn("Failed to close migrator", zap.Error(err))
		}
	}()
	return m.Up()
}

func migrateSQLite(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("failed to auto-migrate models: %w", err)
	}
	if err := SeedCatalog(ctx, db); err != nil {
		return err
	}
	logger.Info("SQLite schema migrated and catalog seeded")
	return nil
}

// SeedCatalog inserts the reference catalog rows. Existing rows are kept.
func SeedCatalog(ctx context.Context, db *gorm.DB) error {
	stmts, err := SeedStatements()
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range stmts {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to seed catalog: %w", err)
			}
		}
		return nil
	})
}
