package main

import (
	"database/sql"
	"fmt"

	"credential_service_backend/internal/account"
	"credential_service_backend/internal/config"
	"credential_service_backend/internal/platform/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// provideDatabase opens the pool and, when DB_AUTO_MIGRATE is set, migrates the schema.
func provideDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	db, cleanup, err := database.NewGORM(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if cfg.DBAutoMigrate {
		if err := account.AutoMigrate(db); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to migrate registrations table: %w", err)
		}
		logger.Info("Registrations table migrated")
	}
	return db, cleanup, nil
}

func provideSQLDB(db *gorm.DB) (*sql.DB, error) {
	return db.DB()
}
