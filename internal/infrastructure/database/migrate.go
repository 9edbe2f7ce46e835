package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"assistant-platform/services/function-gateway/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes for the gateway domain.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&entities.Assistant{},
		&entities.FunctionDefinition{},
		&entities.FunctionAssistantLink{},
		&entities.NotificationChannel{},
		&entities.ActivityLog{},
		&entities.ReconcileTask{},
	); err != nil {
		return err
	}

	log.Info().Msg("database schema up to date")
	return nil
}
