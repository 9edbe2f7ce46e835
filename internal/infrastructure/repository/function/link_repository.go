package function

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "assistant-platform/services/function-gateway/internal/domain/function"
	"assistant-platform/services/function-gateway/internal/infrastructure/database/entities"
	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

// PostgresLinkRepository provides persistence for function-to-assistant links.
type PostgresLinkRepository struct {
	db *gorm.DB
}

// NewPostgresLinkRepository constructs the link repository.
func NewPostgresLinkRepository(db *gorm.DB) *PostgresLinkRepository {
	return &PostgresLinkRepository{db: db}
}

// Create inserts a new link.
func (r *PostgresLinkRepository) Create(ctx context.Context, link *domain.Link) error {
	entity, err := mapLinkToEntity(link)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal,
			"failed to map link to entity", err, "link-create-map-001")
	}

	if entity.PublicID == "" {
		entity.PublicID = uuid.New().String()
	}

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create link", err, "link-create-db-001")
	}

	link.ID = entity.PublicID
	link.CreatedAt = entity.CreatedAt
	link.UpdatedAt = entity.UpdatedAt
	return nil
}

// GetByID fetches a link by public id.
func (r *PostgresLinkRepository) GetByID(ctx context.Context, id string) (*domain.Link, error) {
	var entity entities.FunctionAssistantLink
	err := r.db.WithContext(ctx).Where("public_id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				"link not found", err, "link-get-notfound-001")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to get link", err, "link-get-db-001")
	}
	return mapLinkToDomain(&entity)
}

// GetByPair fetches the link for a (function, assistant) pair.
func (r *PostgresLinkRepository) GetByPair(ctx context.Context, functionID, assistantID string) (*domain.Link, error) {
	var entity entities.FunctionAssistantLink
	err := r.db.WithContext(ctx).
		Where("function_id = ? AND assistant_id = ?", functionID, assistantID).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				"link not found", err, "link-getpair-notfound-001")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to get link", err, "link-getpair-db-001")
	}
	return mapLinkToDomain(&entity)
}

// Update persists changes to a link.
func (r *PostgresLinkRepository) Update(ctx context.Context, link *domain.Link) error {
	settings, err := toJSON(link.Settings)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal,
			"failed to encode link settings", err, "link-update-map-001")
	}

	result := r.db.WithContext(ctx).
		Model(&entities.FunctionAssistantLink{}).
		Where("public_id = ?", link.ID).
		Updates(map[string]any{
			"enabled":                 link.Enabled,
			"channel_enabled":         link.ChannelEnabled,
			"notification_channel_id": link.NotificationChannelID,
			"settings":                settings,
		})
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update link", result.Error, "link-update-db-001")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"link not found", nil, "link-update-notfound-001")
	}
	return nil
}

// Delete removes a link.
func (r *PostgresLinkRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("public_id = ?", id).Delete(&entities.FunctionAssistantLink{})
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete link", result.Error, "link-delete-db-001")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"link not found", nil, "link-delete-notfound-001")
	}
	return nil
}

// ListEnabled returns enabled links for the assistant ordered by link id.
func (r *PostgresLinkRepository) ListEnabled(ctx context.Context, assistantID string) ([]*domain.Link, error) {
	var rows []entities.FunctionAssistantLink
	err := r.db.WithContext(ctx).
		Where("assistant_id = ? AND enabled = ?", assistantID, true).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list enabled links", err, "link-listenabled-db-001")
	}
	return mapLinksToDomain(rows)
}

// ListByAssistant returns every link for the assistant ordered by link id.
func (r *PostgresLinkRepository) ListByAssistant(ctx context.Context, assistantID string) ([]*domain.Link, error) {
	var rows []entities.FunctionAssistantLink
	err := r.db.WithContext(ctx).
		Where("assistant_id = ?", assistantID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list links", err, "link-list-db-001")
	}
	return mapLinksToDomain(rows)
}

func mapLinksToDomain(rows []entities.FunctionAssistantLink) ([]*domain.Link, error) {
	links := make([]*domain.Link, 0, len(rows))
	for i := range rows {
		link, err := mapLinkToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, nil
}

func mapLinkToEntity(link *domain.Link) (*entities.FunctionAssistantLink, error) {
	settings, err := toJSON(link.Settings)
	if err != nil {
		return nil, err
	}
	return &entities.FunctionAssistantLink{
		PublicID:              link.ID,
		FunctionID:            link.FunctionID,
		AssistantID:           link.AssistantID,
		Enabled:               link.Enabled,
		ChannelEnabled:        link.ChannelEnabled,
		NotificationChannelID: link.NotificationChannelID,
		Settings:              settings,
	}, nil
}

func mapLinkToDomain(entity *entities.FunctionAssistantLink) (*domain.Link, error) {
	settings, err := fromJSON(entity.Settings)
	if err != nil {
		return nil, err
	}
	return &domain.Link{
		ID:                    entity.PublicID,
		FunctionID:            entity.FunctionID,
		AssistantID:           entity.AssistantID,
		Enabled:               entity.Enabled,
		ChannelEnabled:        entity.ChannelEnabled,
		NotificationChannelID: entity.NotificationChannelID,
		Settings:              settings,
		CreatedAt:             entity.CreatedAt,
		UpdatedAt:             entity.UpdatedAt,
	}, nil
}
