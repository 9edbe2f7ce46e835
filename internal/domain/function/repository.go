package function

import "context"

// Repository persists function definitions.
type Repository interface {
	Create(ctx context.Context, def *Definition) error
	GetByID(ctx context.Context, id string) (*Definition, error)
	List(ctx context.Context) ([]*Definition, error)
	Update(ctx context.Context, def *Definition) error
	// Delete removes the definition and every link that references it.
	Delete(ctx context.Context, id string) error
}

// LinkRepository persists function-to-assistant attachments.
type LinkRepository interface {
	Create(ctx context.Context, link *Link) error
	GetByID(ctx context.Context, id string) (*Link, error)
	GetByPair(ctx context.Context, functionID, assistantID string) (*Link, error)
	Update(ctx context.Context, link *Link) error
	Delete(ctx context.Context, id string) error
	// ListEnabled returns enabled links for the assistant ordered by link id,
	// so callers scan candidates in a stable order.
	ListEnabled(ctx context.Context, assistantID string) ([]*Link, error)
	ListByAssistant(ctx context.Context, assistantID string) ([]*Link, error)
}
