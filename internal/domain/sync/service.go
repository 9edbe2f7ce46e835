// Package sync aligns the remote assistant tool list with the locally owned
// function registry. The remote API offers only whole-list replacement, so
// every pass is fetch, recompute, replace in one explicit direction.
package sync

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"assistant-platform/services/function-gateway/internal/domain/activity"
	"assistant-platform/services/function-gateway/internal/domain/assistant"
	"assistant-platform/services/function-gateway/internal/domain/function"
	"assistant-platform/services/function-gateway/internal/domain/naming"
	"assistant-platform/services/function-gateway/internal/infrastructure/metrics"
	"assistant-platform/services/function-gateway/internal/infrastructure/observability"
	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

// Service defines the reconciliation entry points.
type Service interface {
	ReconcileOne(ctx context.Context, assistantID string, mode Mode, excludeFunctionIDs []string) (*Result, error)
	ReconcileAll(ctx context.Context, mode Mode, excludeFunctionIDs []string) ([]AssistantResult, error)
}

// DefaultService implements Service.
type DefaultService struct {
	assistants  assistant.Repository
	definitions function.Repository
	links       function.LinkRepository
	remote      RemoteToolAPI
	recorder    *activity.Recorder
	locks       *keyedMutex
	log         zerolog.Logger
}

// NewService constructs the synchronizer.
func NewService(
	assistants assistant.Repository,
	definitions function.Repository,
	links function.LinkRepository,
	remote RemoteToolAPI,
	recorder *activity.Recorder,
	log zerolog.Logger,
) *DefaultService {
	return &DefaultService{
		assistants:  assistants,
		definitions: definitions,
		links:       links,
		remote:      remote,
		recorder:    recorder,
		locks:       newKeyedMutex(),
		log:         log.With().Str("component", "sync").Logger(),
	}
}

// localTool pairs a canonical name with the descriptor it came from.
type localTool struct {
	canonical string
	entry     ToolEntry
}

// ReconcileOne runs one reconciliation pass for a single assistant. The
// per-assistant lock serializes concurrent passes in-process; cross-process
// races remain last-writer-wins.
func (s *DefaultService) ReconcileOne(ctx context.Context, assistantID string, mode Mode, excludeFunctionIDs []string) (*Result, error) {
	if !mode.Valid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"unknown reconciliation mode", nil, "sync-mode-001")
	}

	a, err := s.assistants.GetByID(ctx, assistantID)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(a.ID)
	defer s.locks.Unlock(a.ID)

	return s.reconcileLocked(ctx, a, mode, excludeFunctionIDs)
}

func (s *DefaultService) reconcileLocked(ctx context.Context, a *assistant.Assistant, mode Mode, excludeFunctionIDs []string) (*Result, error) {
	ctx, span := observability.StartReconcileSpan(ctx, a.ID, string(mode))
	defer span.End()

	start := time.Now()
	result, err := s.reconcilePass(ctx, a, mode, excludeFunctionIDs)
	if err != nil {
		span.RecordError(err)
		metrics.RecordReconcile(string(mode), "error", time.Since(start))
		return nil, err
	}
	metrics.RecordReconcile(string(mode), "success", time.Since(start))
	return result, nil
}

func (s *DefaultService) reconcilePass(ctx context.Context, a *assistant.Assistant, mode Mode, excludeFunctionIDs []string) (*Result, error) {
	remoteTools, err := s.remote.ListTools(ctx, a.RemoteRef)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			"fetch remote tool list", err, "sync-remote-fetch-001")
	}

	remoteSet := make(map[string]struct{}, len(remoteTools))
	for _, tool := range remoteTools {
		remoteSet[tool.Name] = struct{}{}
	}

	localTools, err := s.localSet(ctx, a.ID, excludeFunctionIDs)
	if err != nil {
		return nil, err
	}
	localSet := make(map[string]struct{}, len(localTools))
	for _, lt := range localTools {
		localSet[lt.canonical] = struct{}{}
	}

	var toAdd []localTool
	for _, lt := range localTools {
		if _, ok := remoteSet[lt.canonical]; !ok {
			toAdd = append(toAdd, lt)
		}
	}

	var toRemove []string
	for _, tool := range remoteTools {
		if _, ok := localSet[tool.Name]; !ok {
			toRemove = append(toRemove, tool.Name)
		}
	}

	result := &Result{Added: []string{}, Removed: []string{}}

	switch mode {
	case ModeObserve:
		for _, lt := range toAdd {
			result.Added = append(result.Added, lt.canonical)
		}
		result.Removed = append(result.Removed, toRemove...)
		return result, nil

	case ModePush:
		if len(toAdd) == 0 {
			return result, nil
		}
		updated := append([]ToolEntry(nil), remoteTools...)
		for _, lt := range toAdd {
			updated = append(updated, lt.entry)
			result.Added = append(result.Added, lt.canonical)
		}
		if err := s.remote.ReplaceTools(ctx, a.RemoteRef, updated); err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
				"update remote tool list", err, "sync-remote-push-001")
		}

	case ModePull:
		if len(toRemove) == 0 {
			return result, nil
		}
		removeSet := make(map[string]struct{}, len(toRemove))
		for _, name := range toRemove {
			removeSet[name] = struct{}{}
		}
		updated := make([]ToolEntry, 0, len(remoteTools))
		for _, tool := range remoteTools {
			if _, drop := removeSet[tool.Name]; drop {
				continue
			}
			updated = append(updated, tool)
		}
		if err := s.remote.ReplaceTools(ctx, a.RemoteRef, updated); err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
				"update remote tool list", err, "sync-remote-pull-001")
		}
		result.Removed = append(result.Removed, toRemove...)
	}

	s.log.Info().
		Str("assistant_id", a.ID).
		Str("mode", string(mode)).
		Strs("added", result.Added).
		Strs("removed", result.Removed).
		Msg("reconciliation applied")

	return result, nil
}

// localSet resolves enabled links to normalized tool descriptors, skipping
// excluded function ids. Exclusion closes the race between deleting a link
// and a concurrently triggered reconciliation resurrecting its function.
func (s *DefaultService) localSet(ctx context.Context, assistantID string, excludeFunctionIDs []string) ([]localTool, error) {
	excluded := make(map[string]struct{}, len(excludeFunctionIDs))
	for _, id := range excludeFunctionIDs {
		excluded[id] = struct{}{}
	}

	links, err := s.links.ListEnabled(ctx, assistantID)
	if err != nil {
		return nil, err
	}

	tools := make([]localTool, 0, len(links))
	seen := make(map[string]struct{}, len(links))
	for _, link := range links {
		if _, skip := excluded[link.FunctionID]; skip {
			continue
		}
		def, err := s.definitions.GetByID(ctx, link.FunctionID)
		if err != nil {
			if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
				s.log.Warn().Str("link_id", link.ID).Str("function_id", link.FunctionID).Msg("link references missing definition, skipping")
				continue
			}
			return nil, err
		}

		canonical := naming.Normalize(def.Name)
		if _, dup := seen[canonical]; dup {
			// Accepted collision risk: distinct definitions can normalize to
			// the same canonical name. First by link order wins.
			s.log.Warn().Str("canonical_name", canonical).Str("function_id", def.ID).Msg("canonical name collision, keeping first")
			continue
		}
		seen[canonical] = struct{}{}

		tools = append(tools, localTool{
			canonical: canonical,
			entry: ToolEntry{
				Name:        canonical,
				Description: def.Description,
				Parameters:  function.SanitizeSchema(def.Parameters),
			},
		})
	}
	return tools, nil
}

// ReconcileAll runs one pass per assistant. A remote failure isolates that
// assistant; the batch continues and the failure is reported in its slot.
func (s *DefaultService) ReconcileAll(ctx context.Context, mode Mode, excludeFunctionIDs []string) ([]AssistantResult, error) {
	if !mode.Valid() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"unknown reconciliation mode", nil, "sync-mode-002")
	}

	assistants, err := s.assistants.List(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]AssistantResult, 0, len(assistants))
	for _, a := range assistants {
		s.locks.Lock(a.ID)
		res, err := s.reconcileLocked(ctx, a, mode, excludeFunctionIDs)
		s.locks.Unlock(a.ID)

		if err != nil {
			s.log.Warn().Err(err).Str("assistant_id", a.ID).Msg("reconciliation failed for assistant")
			results = append(results, AssistantResult{AssistantID: a.ID, Added: []string{}, Removed: []string{}, Error: err.Error()})
			continue
		}

		results = append(results, AssistantResult{AssistantID: a.ID, Added: res.Added, Removed: res.Removed})

		if mode != ModeObserve && (len(res.Added) > 0 || len(res.Removed) > 0) {
			s.recorder.Record(ctx, activity.ActionFunctionsSynced, a.ID, map[string]any{
				"mode":    string(mode),
				"added":   res.Added,
				"removed": res.Removed,
			})
		}
	}

	return results, nil
}
