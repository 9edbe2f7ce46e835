package assistantapi

import (
	"context"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"assistant-platform/services/function-gateway/internal/domain/sync"
	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

// Client talks to the assistant-hosting API. Function tools are read and
// replaced wholesale; non-function tools on the remote assistant are
// preserved untouched.
type Client struct {
	api *openai.Client
	log zerolog.Logger
}

// NewClient constructs the client. baseURL may be empty to use the provider
// default.
func NewClient(apiKey, baseURL string, log zerolog.Logger) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api: openai.NewClientWithConfig(cfg),
		log: log.With().Str("component", "assistant_api").Logger(),
	}
}

// ListTools returns the function tools currently attached to the remote
// assistant.
func (c *Client) ListTools(ctx context.Context, remoteRef string) ([]sync.ToolEntry, error) {
	remote, err := c.api.RetrieveAssistant(ctx, remoteRef)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"failed to retrieve remote assistant", err, "assistantapi-list-001")
	}

	tools := make([]sync.ToolEntry, 0, len(remote.Tools))
	for _, tool := range remote.Tools {
		if tool.Type != openai.AssistantToolTypeFunction || tool.Function == nil {
			continue
		}
		entry := sync.ToolEntry{
			Name:        tool.Function.Name,
			Description: tool.Function.Description,
		}
		if params, ok := tool.Function.Parameters.(map[string]any); ok {
			entry.Parameters = params
		}
		tools = append(tools, entry)
	}
	return tools, nil
}

// ReplaceTools overwrites the remote assistant's function tools with the
// given list. Tools of other types are carried over unchanged.
func (c *Client) ReplaceTools(ctx context.Context, remoteRef string, tools []sync.ToolEntry) error {
	remote, err := c.api.RetrieveAssistant(ctx, remoteRef)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"failed to retrieve remote assistant", err, "assistantapi-replace-get-001")
	}

	next := make([]openai.AssistantTool, 0, len(remote.Tools)+len(tools))
	for _, tool := range remote.Tools {
		if tool.Type == openai.AssistantToolTypeFunction {
			continue
		}
		next = append(next, tool)
	}
	for _, entry := range tools {
		next = append(next, openai.AssistantTool{
			Type: openai.AssistantToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        entry.Name,
				Description: entry.Description,
				Parameters:  entry.Parameters,
			},
		})
	}

	_, err = c.api.ModifyAssistant(ctx, remoteRef, openai.AssistantRequest{
		Model: remote.Model,
		Tools: next,
	})
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"failed to replace remote assistant tools", err, "assistantapi-replace-001")
	}

	c.log.Debug().
		Str("remote_ref", remoteRef).
		Int("function_tools", len(tools)).
		Msg("Replaced remote assistant tools")
	return nil
}
