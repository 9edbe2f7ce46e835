package activity

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "assistant-platform/services/function-gateway/internal/domain/activity"
	"assistant-platform/services/function-gateway/internal/infrastructure/database/entities"
	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

// PostgresRepository provides append-only persistence for activity entries.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append inserts a new activity entry.
func (r *PostgresRepository) Append(ctx context.Context, entry *domain.Entry) error {
	var details datatypes.JSON
	if entry.Details != nil {
		data, err := json.Marshal(entry.Details)
		if err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal,
				"failed to encode activity details", err, "activity-append-map-001")
		}
		details = datatypes.JSON(data)
	}

	entity := &entities.ActivityLog{
		PublicID:    uuid.New().String(),
		Action:      string(entry.Action),
		AssistantID: entry.AssistantID,
		Details:     details,
	}

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to append activity entry", err, "activity-append-db-001")
	}

	entry.ID = entity.PublicID
	entry.CreatedAt = entity.CreatedAt
	return nil
}

// ListByAssistant returns the most recent entries for an assistant, newest
// first.
func (r *PostgresRepository) ListByAssistant(ctx context.Context, assistantID string, limit int) ([]*domain.Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []entities.ActivityLog
	err := r.db.WithContext(ctx).
		Where("assistant_id = ?", assistantID).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list activity entries", err, "activity-list-db-001")
	}

	entriesOut := make([]*domain.Entry, 0, len(rows))
	for i := range rows {
		entry, err := mapToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		entriesOut = append(entriesOut, entry)
	}
	return entriesOut, nil
}

func mapToDomain(entity *entities.ActivityLog) (*domain.Entry, error) {
	var details map[string]any
	if len(entity.Details) > 0 {
		if err := json.Unmarshal(entity.Details, &details); err != nil {
			return nil, err
		}
	}
	return &domain.Entry{
		ID:          entity.PublicID,
		Action:      domain.Action(entity.Action),
		AssistantID: entity.AssistantID,
		Details:     details,
		CreatedAt:   entity.CreatedAt,
	}, nil
}
