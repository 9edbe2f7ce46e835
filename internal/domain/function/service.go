package function

import (
	"context"

	"github.com/rs/zerolog"

	"assistant-platform/services/function-gateway/internal/domain/naming"
	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

// Service defines the interface for registry business logic.
type Service interface {
	// Definition lifecycle
	Create(ctx context.Context, params CreateParams) (*Definition, error)
	GetByID(ctx context.Context, id string) (*Definition, error)
	List(ctx context.Context) ([]*Definition, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Definition, error)
	Delete(ctx context.Context, id string) error

	// Link operations
	Attach(ctx context.Context, functionID, assistantID string, params AttachParams) (*Link, error)
	UpdateLink(ctx context.Context, linkID string, params UpdateLinkParams) (*Link, error)
	Detach(ctx context.Context, linkID string) (*Link, error)
	GetLink(ctx context.Context, linkID string) (*Link, error)
	ListLinks(ctx context.Context, assistantID string) ([]*Link, error)
}

// CreateParams contains parameters for creating a new definition.
type CreateParams struct {
	Name             string
	Description      string
	Parameters       map[string]any
	DefaultChannelID *string
}

// UpdateParams contains the mutable definition fields.
type UpdateParams struct {
	Name             *string
	Description      *string
	Parameters       map[string]any
	DefaultChannelID *string
}

// AttachParams contains the optional link configuration set at attach time.
type AttachParams struct {
	Enabled               bool
	ChannelEnabled        bool
	NotificationChannelID *string
	Settings              map[string]any
}

// UpdateLinkParams contains the mutable link fields.
type UpdateLinkParams struct {
	Enabled               *bool
	ChannelEnabled        *bool
	NotificationChannelID *string
	Settings              map[string]any
}

// DefaultService implements Service on top of the repositories.
type DefaultService struct {
	definitions Repository
	links       LinkRepository
	log         zerolog.Logger
}

// NewService constructs the registry service.
func NewService(definitions Repository, links LinkRepository, log zerolog.Logger) *DefaultService {
	return &DefaultService{
		definitions: definitions,
		links:       links,
		log:         log.With().Str("component", "function-registry").Logger(),
	}
}

// Create inserts a definition after checking that no existing definition
// collapses to the same canonical name. Two definitions sharing a canonical
// name would be indistinguishable to the remote API and the resolver.
func (s *DefaultService) Create(ctx context.Context, params CreateParams) (*Definition, error) {
	if params.Name == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"function name is required", nil, "function-create-name-001")
	}

	canonical := naming.Normalize(params.Name)
	existing, err := s.definitions.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, def := range existing {
		if naming.Normalize(def.Name) == canonical {
			return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
				"another function normalizes to the same canonical name", nil, "function-create-collision-001",
				map[string]any{"canonical_name": canonical, "conflicting_id": def.ID})
		}
	}

	def := &Definition{
		Name:             params.Name,
		Description:      params.Description,
		Parameters:       params.Parameters,
		DefaultChannelID: params.DefaultChannelID,
	}
	if err := s.definitions.Create(ctx, def); err != nil {
		return nil, err
	}

	s.log.Info().Str("function_id", def.ID).Str("canonical_name", canonical).Msg("function definition created")
	return def, nil
}

func (s *DefaultService) GetByID(ctx context.Context, id string) (*Definition, error) {
	return s.definitions.GetByID(ctx, id)
}

func (s *DefaultService) List(ctx context.Context) ([]*Definition, error) {
	return s.definitions.List(ctx)
}

func (s *DefaultService) Update(ctx context.Context, id string, params UpdateParams) (*Definition, error) {
	def, err := s.definitions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil && *params.Name != def.Name {
		canonical := naming.Normalize(*params.Name)
		existing, err := s.definitions.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, other := range existing {
			if other.ID != def.ID && naming.Normalize(other.Name) == canonical {
				return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
					"another function normalizes to the same canonical name", nil, "function-update-collision-001",
					map[string]any{"canonical_name": canonical, "conflicting_id": other.ID})
			}
		}
		def.Name = *params.Name
	}
	if params.Description != nil {
		def.Description = *params.Description
	}
	if params.Parameters != nil {
		def.Parameters = params.Parameters
	}
	if params.DefaultChannelID != nil {
		def.DefaultChannelID = params.DefaultChannelID
	}

	if err := s.definitions.Update(ctx, def); err != nil {
		return nil, err
	}
	return def, nil
}

// Delete removes the definition from the registry together with all of its
// assistant attachments.
func (s *DefaultService) Delete(ctx context.Context, id string) error {
	if _, err := s.definitions.GetByID(ctx, id); err != nil {
		return err
	}
	return s.definitions.Delete(ctx, id)
}

// Attach creates the link between a function and an assistant. The
// (function, assistant) pair is unique; attaching twice is a conflict.
func (s *DefaultService) Attach(ctx context.Context, functionID, assistantID string, params AttachParams) (*Link, error) {
	if _, err := s.definitions.GetByID(ctx, functionID); err != nil {
		return nil, err
	}

	if existing, err := s.links.GetByPair(ctx, functionID, assistantID); err == nil && existing != nil {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			"function is already attached to this assistant", nil, "link-attach-duplicate-001",
			map[string]any{"link_id": existing.ID})
	}

	link := &Link{
		FunctionID:            functionID,
		AssistantID:           assistantID,
		Enabled:               params.Enabled,
		ChannelEnabled:        params.ChannelEnabled,
		NotificationChannelID: params.NotificationChannelID,
		Settings:              params.Settings,
	}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, err
	}

	s.log.Info().Str("link_id", link.ID).Str("function_id", functionID).Str("assistant_id", assistantID).Msg("function attached")
	return link, nil
}

func (s *DefaultService) UpdateLink(ctx context.Context, linkID string, params UpdateLinkParams) (*Link, error) {
	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return nil, err
	}

	if params.Enabled != nil {
		link.Enabled = *params.Enabled
	}
	if params.ChannelEnabled != nil {
		link.ChannelEnabled = *params.ChannelEnabled
	}
	if params.NotificationChannelID != nil {
		link.NotificationChannelID = params.NotificationChannelID
	}
	if params.Settings != nil {
		link.Settings = params.Settings
	}

	if err := s.links.Update(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// Detach removes the link and returns it, so the caller can exclude the
// function id from any reconciliation it triggers right after.
func (s *DefaultService) Detach(ctx context.Context, linkID string) (*Link, error) {
	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if err := s.links.Delete(ctx, linkID); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *DefaultService) GetLink(ctx context.Context, linkID string) (*Link, error) {
	return s.links.GetByID(ctx, linkID)
}

func (s *DefaultService) ListLinks(ctx context.Context, assistantID string) ([]*Link, error) {
	return s.links.ListByAssistant(ctx, assistantID)
}
