package channel

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "assistant-platform/services/function-gateway/internal/domain/channel"
	"assistant-platform/services/function-gateway/internal/infrastructure/database/entities"
	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for notification channels.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new channel.
func (r *PostgresRepository) Create(ctx context.Context, ch *domain.Channel) error {
	settings, err := encodeSettings(ch.Settings)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal,
			"failed to encode channel settings", err, "channel-create-map-001")
	}

	entity := &entities.NotificationChannel{
		PublicID: ch.ID,
		Name:     ch.Name,
		Type:     string(ch.Type),
		Settings: settings,
		Status:   string(ch.Status),
	}
	if entity.PublicID == "" {
		entity.PublicID = uuid.New().String()
	}

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create channel", err, "channel-create-db-001")
	}

	ch.ID = entity.PublicID
	ch.CreatedAt = entity.CreatedAt
	ch.UpdatedAt = entity.UpdatedAt
	return nil
}

// GetByID fetches a channel by public id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Channel, error) {
	var entity entities.NotificationChannel
	err := r.db.WithContext(ctx).Where("public_id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				"channel not found", err, "channel-get-notfound-001")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to get channel", err, "channel-get-db-001")
	}
	return mapToDomain(&entity)
}

// List returns every channel ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Channel, error) {
	var rows []entities.NotificationChannel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list channels", err, "channel-list-db-001")
	}

	channels := make([]*domain.Channel, 0, len(rows))
	for i := range rows {
		ch, err := mapToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

// Update persists settings and status changes. Type and id never change.
func (r *PostgresRepository) Update(ctx context.Context, ch *domain.Channel) error {
	settings, err := encodeSettings(ch.Settings)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal,
			"failed to encode channel settings", err, "channel-update-map-001")
	}

	result := r.db.WithContext(ctx).
		Model(&entities.NotificationChannel{}).
		Where("public_id = ?", ch.ID).
		Updates(map[string]any{
			"name":     ch.Name,
			"settings": settings,
			"status":   string(ch.Status),
		})
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update channel", result.Error, "channel-update-db-001")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"channel not found", nil, "channel-update-notfound-001")
	}
	return nil
}

func encodeSettings(m map[string]any) (datatypes.JSON, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func mapToDomain(entity *entities.NotificationChannel) (*domain.Channel, error) {
	var settings map[string]any
	if len(entity.Settings) > 0 {
		if err := json.Unmarshal(entity.Settings, &settings); err != nil {
			return nil, err
		}
	}
	return &domain.Channel{
		ID:        entity.PublicID,
		Name:      entity.Name,
		Type:      domain.Type(entity.Type),
		Settings:  settings,
		Status:    domain.Status(entity.Status),
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}, nil
}
