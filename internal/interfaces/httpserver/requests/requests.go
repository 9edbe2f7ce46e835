package requests

// InvocationToolCall is one function call inside an invocation batch.
type InvocationToolCall struct {
	ID       string `json:"id"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

// InvocationRequest is the body of POST /v1/invocations.
type InvocationRequest struct {
	AssistantRef string               `json:"assistant_ref" binding:"required"`
	ToolCalls    []InvocationToolCall `json:"tool_calls"`
}

// ReconcileRequest is the body of POST /v1/assistants/:assistant_id/reconcile.
type ReconcileRequest struct {
	Mode               string   `json:"mode"`
	ExcludeFunctionIDs []string `json:"exclude_function_ids"`
}

// BulkReconcileRequest is the body of POST /v1/reconcile.
type BulkReconcileRequest struct {
	Mode               string   `json:"mode"`
	ExcludeFunctionIDs []string `json:"exclude_function_ids"`
	Background         bool     `json:"background"`
}

// CreateFunctionRequest is the body of POST /v1/functions.
type CreateFunctionRequest struct {
	Name             string         `json:"name" binding:"required"`
	Description      string         `json:"description"`
	Parameters       map[string]any `json:"parameters"`
	DefaultChannelID *string        `json:"default_channel_id"`
}

// UpdateFunctionRequest is the body of PATCH /v1/functions/:id.
type UpdateFunctionRequest struct {
	Name             *string        `json:"name"`
	Description      *string        `json:"description"`
	Parameters       map[string]any `json:"parameters"`
	DefaultChannelID *string        `json:"default_channel_id"`
}

// AttachLinkRequest is the body of POST /v1/functions/:id/links.
type AttachLinkRequest struct {
	AssistantID           string         `json:"assistant_id" binding:"required"`
	Enabled               *bool          `json:"enabled"`
	ChannelEnabled        *bool          `json:"channel_enabled"`
	NotificationChannelID *string        `json:"notification_channel_id"`
	Settings              map[string]any `json:"settings"`
}

// UpdateLinkRequest is the body of PATCH /v1/links/:id.
type UpdateLinkRequest struct {
	Enabled               *bool          `json:"enabled"`
	ChannelEnabled        *bool          `json:"channel_enabled"`
	NotificationChannelID *string        `json:"notification_channel_id"`
	Settings              map[string]any `json:"settings"`
}

// CreateChannelRequest is the body of POST /v1/channels.
type CreateChannelRequest struct {
	Name     string         `json:"name"`
	Type     string         `json:"type" binding:"required"`
	Settings map[string]any `json:"settings"`
}

// UpdateChannelRequest is the body of PATCH /v1/channels/:id.
type UpdateChannelRequest struct {
	Name     *string        `json:"name"`
	Settings map[string]any `json:"settings"`
	Status   *string        `json:"status"`
}

// RegisterAssistantRequest is the body of POST /v1/assistants.
type RegisterAssistantRequest struct {
	Name      string `json:"name"`
	RemoteRef string `json:"remote_ref" binding:"required"`
}
