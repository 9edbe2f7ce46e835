// Package invocation processes tool-call events arriving from the assistant
// run-completion webhook: resolve the call name, dispatch the payload, and
// always hand one parseable output back per call.
package invocation

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"assistant-platform/services/function-gateway/internal/domain/activity"
	"assistant-platform/services/function-gateway/internal/domain/assistant"
	"assistant-platform/services/function-gateway/internal/domain/dispatch"
	"assistant-platform/services/function-gateway/internal/domain/resolve"
	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

// ToolCall is one inbound function call from the remote event source.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolOutput pairs a call id with its JSON-encoded envelope. Every call gets
// exactly one output, success or failure, so the upstream conversation never
// stalls.
type ToolOutput struct {
	ToolCallID string `json:"tool_call_id"`
	Output     string `json:"output"`
}

// Envelope is the uniform shape serialized into ToolOutput.Output.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Service handles invocation batches.
type Service interface {
	Handle(ctx context.Context, assistantRef string, calls []ToolCall) ([]ToolOutput, error)
}

// DefaultService implements Service.
type DefaultService struct {
	assistants assistant.Repository
	resolver   resolve.Resolver
	dispatcher dispatch.Dispatcher
	recorder   *activity.Recorder
	log        zerolog.Logger
}

// NewService constructs the invocation service.
func NewService(
	assistants assistant.Repository,
	resolver resolve.Resolver,
	dispatcher dispatch.Dispatcher,
	recorder *activity.Recorder,
	log zerolog.Logger,
) *DefaultService {
	return &DefaultService{
		assistants: assistants,
		resolver:   resolver,
		dispatcher: dispatcher,
		recorder:   recorder,
		log:        log.With().Str("component", "invocation").Logger(),
	}
}

// Handle processes every call in the batch independently. The only batch
// level failure is an unknown assistant reference.
func (s *DefaultService) Handle(ctx context.Context, assistantRef string, calls []ToolCall) ([]ToolOutput, error) {
	a, err := s.assistants.GetByRemoteRef(ctx, assistantRef)
	if err != nil {
		return nil, err
	}

	outputs := make([]ToolOutput, 0, len(calls))
	for _, call := range calls {
		outputs = append(outputs, ToolOutput{
			ToolCallID: call.ID,
			Output:     marshalEnvelope(s.handleCall(ctx, a, call)),
		})
	}
	return outputs, nil
}

func (s *DefaultService) handleCall(ctx context.Context, a *assistant.Assistant, call ToolCall) Envelope {
	args := parseArguments(call.Arguments)

	s.recorder.Record(ctx, activity.ActionFunctionCalled, a.ID, map[string]any{
		"tool_call_id": call.ID,
		"name":         call.Name,
	})

	match, err := s.resolver.Resolve(ctx, a.ID, call.Name)
	if err != nil {
		s.log.Warn().Err(err).Str("assistant_id", a.ID).Str("name", call.Name).Msg("invocation not resolved")
		s.recorder.Record(ctx, activity.ActionFunctionError, a.ID, map[string]any{
			"tool_call_id": call.ID,
			"name":         call.Name,
			"error":        "function not found",
		})
		return Envelope{Success: false, Error: "function not found", Message: "no function matches " + call.Name}
	}

	if !match.Link.ChannelEnabled {
		s.recorder.Record(ctx, activity.ActionFunctionSuccess, a.ID, map[string]any{
			"tool_call_id": call.ID,
			"function_id":  match.Definition.ID,
			"dispatched":   false,
		})
		return Envelope{Success: true, Message: "function recorded, notification channel disabled"}
	}

	outcome, err := s.dispatcher.Dispatch(ctx, match.Link, match.Definition, args)
	if err != nil {
		return Envelope{Success: false, Error: errorKind(err), Message: err.Error()}
	}

	s.recorder.Record(ctx, activity.ActionFunctionSuccess, a.ID, map[string]any{
		"tool_call_id": call.ID,
		"function_id":  match.Definition.ID,
		"channel_type": string(outcome.ChannelType),
	})
	return Envelope{Success: true, Data: map[string]any{"channel_type": string(outcome.ChannelType)}, Message: outcome.Detail}
}

// parseArguments recovers malformed argument payloads by substituting an
// empty object instead of failing the call.
func parseArguments(raw string) map[string]any {
	if raw == "" {
		return map[string]any{}
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil || args == nil {
		return map[string]any{}
	}
	return args
}

func marshalEnvelope(env Envelope) string {
	data, err := json.Marshal(env)
	if err != nil {
		return `{"success":false,"error":"internal"}`
	}
	return string(data)
}

func errorKind(err error) string {
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		return string(platformErr.Type)
	}
	return string(platformerrors.ErrorTypeInternal)
}
