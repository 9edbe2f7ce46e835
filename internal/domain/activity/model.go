package activity

import (
	"context"
	"time"
)

// Action identifies the unit of work an entry records.
type Action string

const (
	ActionFunctionCalled   Action = "function_called"
	ActionFunctionDataSent Action = "function_data_sent"
	ActionFunctionSuccess  Action = "function_success"
	ActionFunctionError    Action = "function_error"
	ActionFunctionsSynced  Action = "functions_synced"
)

// Entry is one append-only audit record. Entries are never mutated or
// deleted by this service.
type Entry struct {
	ID          string
	Action      Action
	AssistantID string
	Details     map[string]any
	CreatedAt   time.Time
}

// Repository appends and reads activity entries.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	ListByAssistant(ctx context.Context, assistantID string, limit int) ([]*Entry, error)
}

// Forwarder pushes entries to an external sink, best effort.
type Forwarder interface {
	Forward(ctx context.Context, entry *Entry) error
}
