package assistant

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

// Service defines the interface for assistant registration.
type Service interface {
	Register(ctx context.Context, name, remoteRef string) (*Assistant, error)
	GetByID(ctx context.Context, id string) (*Assistant, error)
	List(ctx context.Context) ([]*Assistant, error)
}

// DefaultService implements Service.
type DefaultService struct {
	assistants Repository
	log        zerolog.Logger
}

// NewService constructs the assistant service.
func NewService(assistants Repository, log zerolog.Logger) *DefaultService {
	return &DefaultService{
		assistants: assistants,
		log:        log.With().Str("component", "assistants").Logger(),
	}
}

// Register records a remote assistant under a local id. The remote reference
// is unique; registering the same one twice is a conflict.
func (s *DefaultService) Register(ctx context.Context, name, remoteRef string) (*Assistant, error) {
	if strings.TrimSpace(remoteRef) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"remote_ref is required", nil, "assistant-register-ref-001")
	}

	if existing, err := s.assistants.GetByRemoteRef(ctx, remoteRef); err == nil && existing != nil {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			"assistant is already registered", nil, "assistant-register-duplicate-001",
			map[string]any{"assistant_id": existing.ID})
	}

	a := &Assistant{Name: name, RemoteRef: remoteRef}
	if err := s.assistants.Create(ctx, a); err != nil {
		return nil, err
	}

	s.log.Info().Str("assistant_id", a.ID).Str("remote_ref", remoteRef).Msg("assistant registered")
	return a, nil
}

func (s *DefaultService) GetByID(ctx context.Context, id string) (*Assistant, error) {
	return s.assistants.GetByID(ctx, id)
}

func (s *DefaultService) List(ctx context.Context) ([]*Assistant, error) {
	return s.assistants.List(ctx)
}
