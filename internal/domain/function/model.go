package function

import (
	"time"
)

// Definition describes a callable capability owned by the platform. The name
// is free-form and may contain non-Latin script; the canonical form pushed to
// the remote tool API is derived via the naming package.
type Definition struct {
	ID               string
	Name             string
	Description      string
	Parameters       map[string]any
	DefaultChannelID *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Link attaches a Definition to an assistant. At most one link exists per
// (function, assistant) pair. Enabled gates both synchronization and
// dispatch; ChannelEnabled additionally gates dispatch alone.
type Link struct {
	ID                    string
	FunctionID            string
	AssistantID           string
	Enabled               bool
	ChannelEnabled        bool
	NotificationChannelID *string
	Settings              map[string]any
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// SanitizeSchema returns a parameter schema safe to hand to the remote tool
// API. A missing or malformed schema is replaced with the minimal valid
// object schema instead of failing the caller.
func SanitizeSchema(schema map[string]any) map[string]any {
	if schema == nil {
		return emptyObjectSchema()
	}
	typ, ok := schema["type"].(string)
	if !ok || typ != "object" {
		return emptyObjectSchema()
	}
	if _, ok := schema["properties"].(map[string]any); !ok {
		return emptyObjectSchema()
	}
	return schema
}

func emptyObjectSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
		"required":   []any{},
	}
}
