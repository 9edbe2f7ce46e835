package assistant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "assistant-platform/services/function-gateway/internal/domain/assistant"
	"assistant-platform/services/function-gateway/internal/infrastructure/database/entities"
	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for assistant records.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new assistant record.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.Assistant) error {
	entity := &entities.Assistant{
		PublicID:  a.ID,
		Name:      a.Name,
		RemoteRef: a.RemoteRef,
	}
	if entity.PublicID == "" {
		entity.PublicID = uuid.New().String()
	}

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create assistant", err, "assistant-create-db-001")
	}

	a.ID = entity.PublicID
	a.CreatedAt = entity.CreatedAt
	a.UpdatedAt = entity.UpdatedAt
	return nil
}

// GetByID fetches an assistant by public id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Assistant, error) {
	return r.getBy(ctx, "public_id = ?", id)
}

// GetByRemoteRef fetches an assistant by its remote identifier.
func (r *PostgresRepository) GetByRemoteRef(ctx context.Context, remoteRef string) (*domain.Assistant, error) {
	return r.getBy(ctx, "remote_ref = ?", remoteRef)
}

// List returns every assistant ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Assistant, error) {
	var rows []entities.Assistant
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list assistants", err, "assistant-list-db-001")
	}

	assistants := make([]*domain.Assistant, 0, len(rows))
	for i := range rows {
		assistants = append(assistants, mapToDomain(&rows[i]))
	}
	return assistants, nil
}

func (r *PostgresRepository) getBy(ctx context.Context, query string, arg string) (*domain.Assistant, error) {
	var entity entities.Assistant
	err := r.db.WithContext(ctx).Where(query, arg).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				"assistant not found", err, "assistant-get-notfound-001")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to get assistant", err, "assistant-get-db-001")
	}
	return mapToDomain(&entity), nil
}

func mapToDomain(entity *entities.Assistant) *domain.Assistant {
	return &domain.Assistant{
		ID:        entity.PublicID,
		Name:      entity.Name,
		RemoteRef: entity.RemoteRef,
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}
}
