package assistant

import (
	"context"
	"time"
)

// Assistant is the local record of a remote assistant resource. RemoteRef is
// the identifier the assistant-hosting API knows the assistant by.
type Assistant struct {
	ID        string
	Name      string
	RemoteRef string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository persists assistant records.
type Repository interface {
	Create(ctx context.Context, a *Assistant) error
	GetByID(ctx context.Context, id string) (*Assistant, error)
	GetByRemoteRef(ctx context.Context, remoteRef string) (*Assistant, error)
	List(ctx context.Context) ([]*Assistant, error)
}
