package channel

import (
	"context"
	"time"
)

// Type enumerates supported delivery targets.
type Type string

const (
	TypeTelegram Type = "telegram"
	TypeEmail    Type = "email"
)

// Status reflects whether a channel is usable for dispatch.
type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// Channel is a delivery target with transport credentials in Settings. The
// identity (id, type) is immutable; settings may be edited.
type Channel struct {
	ID        string
	Name      string
	Type      Type
	Settings  map[string]any
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Setting returns the named settings value as a string, or "" when absent.
func (c *Channel) Setting(key string) string {
	if c.Settings == nil {
		return ""
	}
	if v, ok := c.Settings[key].(string); ok {
		return v
	}
	return ""
}

// Repository persists notification channels.
type Repository interface {
	Create(ctx context.Context, ch *Channel) error
	GetByID(ctx context.Context, id string) (*Channel, error)
	List(ctx context.Context) ([]*Channel, error)
	// Update persists settings and status changes; type and id never change.
	Update(ctx context.Context, ch *Channel) error
}
