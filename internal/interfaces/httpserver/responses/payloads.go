package responses

import (
	"time"

	"assistant-platform/services/function-gateway/internal/domain/activity"
	"assistant-platform/services/function-gateway/internal/domain/assistant"
	"assistant-platform/services/function-gateway/internal/domain/channel"
	"assistant-platform/services/function-gateway/internal/domain/function"
	"assistant-platform/services/function-gateway/internal/domain/invocation"
	"assistant-platform/services/function-gateway/internal/domain/naming"
)

// FunctionPayload is returned to clients for function definitions.
type FunctionPayload struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	CanonicalName    string         `json:"canonical_name"`
	Description      string         `json:"description,omitempty"`
	Parameters       map[string]any `json:"parameters,omitempty"`
	DefaultChannelID *string        `json:"default_channel_id,omitempty"`
	CreatedAt        string         `json:"created_at"`
	UpdatedAt        string         `json:"updated_at"`
}

// MapFunctionToPayload maps a definition to its DTO.
func MapFunctionToPayload(def *function.Definition) FunctionPayload {
	return FunctionPayload{
		ID:               def.ID,
		Name:             def.Name,
		CanonicalName:    naming.Normalize(def.Name),
		Description:      def.Description,
		Parameters:       def.Parameters,
		DefaultChannelID: def.DefaultChannelID,
		CreatedAt:        def.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        def.UpdatedAt.Format(time.RFC3339),
	}
}

// LinkPayload is returned to clients for function-assistant links.
type LinkPayload struct {
	ID                    string         `json:"id"`
	FunctionID            string         `json:"function_id"`
	AssistantID           string         `json:"assistant_id"`
	Enabled               bool           `json:"enabled"`
	ChannelEnabled        bool           `json:"channel_enabled"`
	NotificationChannelID *string        `json:"notification_channel_id,omitempty"`
	Settings              map[string]any `json:"settings,omitempty"`
	CreatedAt             string         `json:"created_at"`
	UpdatedAt             string         `json:"updated_at"`
}

// MapLinkToPayload maps a link to its DTO.
func MapLinkToPayload(link *function.Link) LinkPayload {
	return LinkPayload{
		ID:                    link.ID,
		FunctionID:            link.FunctionID,
		AssistantID:           link.AssistantID,
		Enabled:               link.Enabled,
		ChannelEnabled:        link.ChannelEnabled,
		NotificationChannelID: link.NotificationChannelID,
		Settings:              link.Settings,
		CreatedAt:             link.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             link.UpdatedAt.Format(time.RFC3339),
	}
}

// ChannelPayload is returned to clients for notification channels. Settings
// are echoed back as stored; callers own credential hygiene.
type ChannelPayload struct {
	ID        string         `json:"id"`
	Name      string         `json:"name,omitempty"`
	Type      string         `json:"type"`
	Settings  map[string]any `json:"settings,omitempty"`
	Status    string         `json:"status"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

// MapChannelToPayload maps a channel to its DTO.
func MapChannelToPayload(ch *channel.Channel) ChannelPayload {
	return ChannelPayload{
		ID:        ch.ID,
		Name:      ch.Name,
		Type:      string(ch.Type),
		Settings:  ch.Settings,
		Status:    string(ch.Status),
		CreatedAt: ch.CreatedAt.Format(time.RFC3339),
		UpdatedAt: ch.UpdatedAt.Format(time.RFC3339),
	}
}

// AssistantPayload is returned to clients for assistant records.
type AssistantPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	RemoteRef string `json:"remote_ref"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// MapAssistantToPayload maps an assistant to its DTO.
func MapAssistantToPayload(a *assistant.Assistant) AssistantPayload {
	return AssistantPayload{
		ID:        a.ID,
		Name:      a.Name,
		RemoteRef: a.RemoteRef,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
}

// ActivityEntryPayload is one activity trail record.
type ActivityEntryPayload struct {
	ID          string         `json:"id"`
	Action      string         `json:"action"`
	AssistantID string         `json:"assistant_id"`
	Details     map[string]any `json:"details,omitempty"`
	CreatedAt   string         `json:"created_at"`
}

// MapActivityToPayload maps an activity entry to its DTO.
func MapActivityToPayload(entry *activity.Entry) ActivityEntryPayload {
	return ActivityEntryPayload{
		ID:          entry.ID,
		Action:      string(entry.Action),
		AssistantID: entry.AssistantID,
		Details:     entry.Details,
		CreatedAt:   entry.CreatedAt.Format(time.RFC3339),
	}
}

// InvocationResponse wraps the tool outputs of one invocation batch.
type InvocationResponse struct {
	Outputs []invocation.ToolOutput `json:"outputs"`
}

// BackgroundTaskResponse acknowledges a queued bulk reconciliation.
type BackgroundTaskResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}
