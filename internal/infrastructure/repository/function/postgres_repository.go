package function

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "assistant-platform/services/function-gateway/internal/domain/function"
	"assistant-platform/services/function-gateway/internal/infrastructure/database/entities"
	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for function definitions.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new function definition.
func (r *PostgresRepository) Create(ctx context.Context, def *domain.Definition) error {
	entity, err := mapDefinitionToEntity(def)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal,
			"failed to map function definition to entity", err, "function-create-map-001")
	}

	if entity.PublicID == "" {
		entity.PublicID = uuid.New().String()
	}

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create function definition", err, "function-create-db-001")
	}

	def.ID = entity.PublicID
	def.CreatedAt = entity.CreatedAt
	def.UpdatedAt = entity.UpdatedAt
	return nil
}

// GetByID fetches a definition by public id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Definition, error) {
	var entity entities.FunctionDefinition
	err := r.db.WithContext(ctx).Where("public_id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				"function definition not found", err, "function-get-notfound-001")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to get function definition", err, "function-get-db-001")
	}
	return mapDefinitionToDomain(&entity)
}

// List returns all function definitions ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Definition, error) {
	var rows []entities.FunctionDefinition
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list function definitions", err, "function-list-db-001")
	}

	defs := make([]*domain.Definition, 0, len(rows))
	for i := range rows {
		def, err := mapDefinitionToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Update persists changes to a definition.
func (r *PostgresRepository) Update(ctx context.Context, def *domain.Definition) error {
	parameters, err := toJSON(def.Parameters)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal,
			"failed to encode parameter schema", err, "function-update-map-001")
	}

	result := r.db.WithContext(ctx).
		Model(&entities.FunctionDefinition{}).
		Where("public_id = ?", def.ID).
		Updates(map[string]any{
			"name":               def.Name,
			"description":        def.Description,
			"parameters":         parameters,
			"default_channel_id": def.DefaultChannelID,
		})
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update function definition", result.Error, "function-update-db-001")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"function definition not found", nil, "function-update-notfound-001")
	}
	return nil
}

// Delete removes the definition together with every link referencing it.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("function_id = ?", id).Delete(&entities.FunctionAssistantLink{}).Error; err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
				"failed to delete function links", err, "function-delete-links-db-001")
		}
		result := tx.Where("public_id = ?", id).Delete(&entities.FunctionDefinition{})
		if result.Error != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
				"failed to delete function definition", result.Error, "function-delete-db-001")
		}
		if result.RowsAffected == 0 {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				"function definition not found", nil, "function-delete-notfound-001")
		}
		return nil
	})
}

func mapDefinitionToEntity(def *domain.Definition) (*entities.FunctionDefinition, error) {
	parameters, err := toJSON(def.Parameters)
	if err != nil {
		return nil, err
	}
	return &entities.FunctionDefinition{
		PublicID:         def.ID,
		Name:             def.Name,
		Description:      def.Description,
		Parameters:       parameters,
		DefaultChannelID: def.DefaultChannelID,
	}, nil
}

func mapDefinitionToDomain(entity *entities.FunctionDefinition) (*domain.Definition, error) {
	parameters, err := fromJSON(entity.Parameters)
	if err != nil {
		return nil, err
	}
	return &domain.Definition{
		ID:               entity.PublicID,
		Name:             entity.Name,
		Description:      entity.Description,
		Parameters:       parameters,
		DefaultChannelID: entity.DefaultChannelID,
		CreatedAt:        entity.CreatedAt,
		UpdatedAt:        entity.UpdatedAt,
	}, nil
}

func toJSON(m map[string]any) (datatypes.JSON, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func fromJSON(data datatypes.JSON) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
