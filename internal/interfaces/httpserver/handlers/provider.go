package handlers

import (
	"github.com/rs/zerolog"

	"assistant-platform/services/function-gateway/internal/domain/activity"
	"assistant-platform/services/function-gateway/internal/domain/assistant"
	"assistant-platform/services/function-gateway/internal/domain/channel"
	"assistant-platform/services/function-gateway/internal/domain/function"
	"assistant-platform/services/function-gateway/internal/domain/invocation"
	domainsync "assistant-platform/services/function-gateway/internal/domain/sync"
	"assistant-platform/services/function-gateway/internal/infrastructure/queue"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Invocation *InvocationHandler
	Reconcile  *ReconcileHandler
	Function   *FunctionHandler
	Channel    *ChannelHandler
	Assistant  *AssistantHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	invocationService invocation.Service,
	syncService domainsync.Service,
	functionService function.Service,
	channelService channel.Service,
	assistantService assistant.Service,
	activityRepo activity.Repository,
	taskQueue queue.TaskQueue,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Invocation: NewInvocationHandler(invocationService, log),
		Reconcile:  NewReconcileHandler(syncService, taskQueue, log),
		Function:   NewFunctionHandler(functionService, syncService, log),
		Channel:    NewChannelHandler(channelService, log),
		Assistant:  NewAssistantHandler(assistantService, functionService, activityRepo, log),
	}
}
