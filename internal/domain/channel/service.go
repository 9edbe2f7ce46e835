package channel

import (
	"context"

	"github.com/rs/zerolog"

	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

// Service defines the interface for channel management.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*Channel, error)
	GetByID(ctx context.Context, id string) (*Channel, error)
	List(ctx context.Context) ([]*Channel, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Channel, error)
}

// CreateParams contains parameters for creating a channel.
type CreateParams struct {
	Name     string
	Type     Type
	Settings map[string]any
}

// UpdateParams contains the mutable channel fields. Type is fixed at
// creation.
type UpdateParams struct {
	Name     *string
	Settings map[string]any
	Status   *Status
}

// DefaultService implements Service.
type DefaultService struct {
	channels Repository
	log      zerolog.Logger
}

// NewService constructs the channel service.
func NewService(channels Repository, log zerolog.Logger) *DefaultService {
	return &DefaultService{
		channels: channels,
		log:      log.With().Str("component", "channels").Logger(),
	}
}

func (s *DefaultService) Create(ctx context.Context, params CreateParams) (*Channel, error) {
	if params.Type != TypeTelegram && params.Type != TypeEmail {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"unsupported channel type", nil, "channel-create-type-001",
			map[string]any{"channel_type": string(params.Type)})
	}

	ch := &Channel{
		Name:     params.Name,
		Type:     params.Type,
		Settings: params.Settings,
		Status:   StatusActive,
	}
	if err := s.channels.Create(ctx, ch); err != nil {
		return nil, err
	}

	s.log.Info().Str("channel_id", ch.ID).Str("channel_type", string(ch.Type)).Msg("notification channel created")
	return ch, nil
}

func (s *DefaultService) GetByID(ctx context.Context, id string) (*Channel, error) {
	return s.channels.GetByID(ctx, id)
}

func (s *DefaultService) List(ctx context.Context) ([]*Channel, error) {
	return s.channels.List(ctx)
}

func (s *DefaultService) Update(ctx context.Context, id string, params UpdateParams) (*Channel, error) {
	ch, err := s.channels.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		ch.Name = *params.Name
	}
	if params.Settings != nil {
		ch.Settings = params.Settings
	}
	if params.Status != nil {
		if *params.Status != StatusActive && *params.Status != StatusDisabled {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"unknown channel status", nil, "channel-update-status-001")
		}
		ch.Status = *params.Status
	}

	if err := s.channels.Update(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}
