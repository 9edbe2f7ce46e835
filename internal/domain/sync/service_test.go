package sync_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/rs/zerolog"

	"assistant-platform/services/function-gateway/internal/domain/activity"
	"assistant-platform/services/function-gateway/internal/domain/assistant"
	"assistant-platform/services/function-gateway/internal/domain/function"
	domainsync "assistant-platform/services/function-gateway/internal/domain/sync"
	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

type MockAssistantRepo struct {
	GetByIDFunc        func(ctx context.Context, id string) (*assistant.Assistant, error)
	GetByRemoteRefFunc func(ctx context.Context, remoteRef string) (*assistant.Assistant, error)
	ListFunc           func(ctx context.Context) ([]*assistant.Assistant, error)
}

func (m *MockAssistantRepo) Create(ctx context.Context, a *assistant.Assistant) error { return nil }

func (m *MockAssistantRepo) GetByID(ctx context.Context, id string) (*assistant.Assistant, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &assistant.Assistant{ID: id, RemoteRef: "asst_" + id}, nil
}

func (m *MockAssistantRepo) GetByRemoteRef(ctx context.Context, remoteRef string) (*assistant.Assistant, error) {
	if m.GetByRemoteRefFunc != nil {
		return m.GetByRemoteRefFunc(ctx, remoteRef)
	}
	return nil, nil
}

func (m *MockAssistantRepo) List(ctx context.Context) ([]*assistant.Assistant, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

type MockDefinitionRepo struct {
	GetByIDFunc func(ctx context.Context, id string) (*function.Definition, error)
}

func (m *MockDefinitionRepo) Create(ctx context.Context, def *function.Definition) error { return nil }
func (m *MockDefinitionRepo) List(ctx context.Context) ([]*function.Definition, error) {
	return nil, nil
}
func (m *MockDefinitionRepo) Update(ctx context.Context, def *function.Definition) error { return nil }
func (m *MockDefinitionRepo) Delete(ctx context.Context, id string) error                { return nil }

func (m *MockDefinitionRepo) GetByID(ctx context.Context, id string) (*function.Definition, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "not found", nil, "")
}

type MockLinkRepo struct {
	ListEnabledFunc func(ctx context.Context, assistantID string) ([]*function.Link, error)
}

func (m *MockLinkRepo) Create(ctx context.Context, link *function.Link) error { return nil }
func (m *MockLinkRepo) GetByID(ctx context.Context, id string) (*function.Link, error) {
	return nil, nil
}
func (m *MockLinkRepo) GetByPair(ctx context.Context, functionID, assistantID string) (*function.Link, error) {
	return nil, nil
}
func (m *MockLinkRepo) Update(ctx context.Context, link *function.Link) error { return nil }
func (m *MockLinkRepo) Delete(ctx context.Context, id string) error           { return nil }
func (m *MockLinkRepo) ListByAssistant(ctx context.Context, assistantID string) ([]*function.Link, error) {
	return nil, nil
}

func (m *MockLinkRepo) ListEnabled(ctx context.Context, assistantID string) ([]*function.Link, error) {
	if m.ListEnabledFunc != nil {
		return m.ListEnabledFunc(ctx, assistantID)
	}
	return nil, nil
}

type MockRemoteAPI struct {
	ListToolsFunc    func(ctx context.Context, remoteRef string) ([]domainsync.ToolEntry, error)
	ReplaceToolsFunc func(ctx context.Context, remoteRef string, tools []domainsync.ToolEntry) error

	replaced [][]domainsync.ToolEntry
}

func (m *MockRemoteAPI) ListTools(ctx context.Context, remoteRef string) ([]domainsync.ToolEntry, error) {
	if m.ListToolsFunc != nil {
		return m.ListToolsFunc(ctx, remoteRef)
	}
	return nil, nil
}

func (m *MockRemoteAPI) ReplaceTools(ctx context.Context, remoteRef string, tools []domainsync.ToolEntry) error {
	m.replaced = append(m.replaced, tools)
	if m.ReplaceToolsFunc != nil {
		return m.ReplaceToolsFunc(ctx, remoteRef, tools)
	}
	return nil
}

type MockActivityRepo struct {
	entries []*activity.Entry
}

func (m *MockActivityRepo) Append(ctx context.Context, entry *activity.Entry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockActivityRepo) ListByAssistant(ctx context.Context, assistantID string, limit int) ([]*activity.Entry, error) {
	return m.entries, nil
}

func newTestService(defs *MockDefinitionRepo, links *MockLinkRepo, remote *MockRemoteAPI, assistants *MockAssistantRepo) (*domainsync.DefaultService, *MockActivityRepo) {
	activityRepo := &MockActivityRepo{}
	recorder := activity.NewRecorder(activityRepo, nil, zerolog.Nop())
	return domainsync.NewService(assistants, defs, links, remote, recorder, zerolog.Nop()), activityRepo
}

func linkTo(id, functionID string) *function.Link {
	return &function.Link{ID: id, FunctionID: functionID, AssistantID: "a1", Enabled: true}
}

func defNamed(id, name string) *function.Definition {
	return &function.Definition{ID: id, Name: name, Parameters: map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}}
}

func TestReconcileOne_ObserveReportsDiffWithoutMutation(t *testing.T) {
	defs := &MockDefinitionRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*function.Definition, error) {
			return defNamed(id, "Звонок клиента"), nil
		},
	}
	links := &MockLinkRepo{
		ListEnabledFunc: func(ctx context.Context, assistantID string) ([]*function.Link, error) {
			return []*function.Link{linkTo("l1", "f1")}, nil
		},
	}
	remote := &MockRemoteAPI{
		ListToolsFunc: func(ctx context.Context, remoteRef string) ([]domainsync.ToolEntry, error) {
			return []domainsync.ToolEntry{{Name: "stale_tool"}}, nil
		},
	}
	svc, _ := newTestService(defs, links, remote, &MockAssistantRepo{})

	result, err := svc.ReconcileOne(context.Background(), "a1", domainsync.ModeObserve, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Added) != 1 || result.Added[0] != "zvonok_klienta" {
		t.Errorf("expected added [zvonok_klienta], got %v", result.Added)
	}
	if len(result.Removed) != 1 || result.Removed[0] != "stale_tool" {
		t.Errorf("expected removed [stale_tool], got %v", result.Removed)
	}
	if len(remote.replaced) != 0 {
		t.Errorf("observe mode must not call ReplaceTools, got %d calls", len(remote.replaced))
	}
}

func TestReconcileOne_PushAppendsMissingTools(t *testing.T) {
	defs := &MockDefinitionRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*function.Definition, error) {
			return defNamed(id, "send report"), nil
		},
	}
	links := &MockLinkRepo{
		ListEnabledFunc: func(ctx context.Context, assistantID string) ([]*function.Link, error) {
			return []*function.Link{linkTo("l1", "f1")}, nil
		},
	}
	remote := &MockRemoteAPI{
		ListToolsFunc: func(ctx context.Context, remoteRef string) ([]domainsync.ToolEntry, error) {
			return []domainsync.ToolEntry{{Name: "existing_tool"}}, nil
		},
	}
	svc, _ := newTestService(defs, links, remote, &MockAssistantRepo{})

	result, err := svc.ReconcileOne(context.Background(), "a1", domainsync.ModePush, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Added) != 1 || result.Added[0] != "send_report" {
		t.Errorf("expected added [send_report], got %v", result.Added)
	}
	if len(result.Removed) != 0 {
		t.Errorf("push mode must not remove, got %v", result.Removed)
	}
	if len(remote.replaced) != 1 {
		t.Fatalf("expected one ReplaceTools call, got %d", len(remote.replaced))
	}

	names := make([]string, 0, len(remote.replaced[0]))
	for _, tool := range remote.replaced[0] {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != "existing_tool" || names[1] != "send_report" {
		t.Errorf("expected remote list [existing_tool send_report], got %v", names)
	}
}

func TestReconcileOne_PushNoChangesSkipsReplace(t *testing.T) {
	defs := &MockDefinitionRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*function.Definition, error) {
			return defNamed(id, "send report"), nil
		},
	}
	links := &MockLinkRepo{
		ListEnabledFunc: func(ctx context.Context, assistantID string) ([]*function.Link, error) {
			return []*function.Link{linkTo("l1", "f1")}, nil
		},
	}
	remote := &MockRemoteAPI{
		ListToolsFunc: func(ctx context.Context, remoteRef string) ([]domainsync.ToolEntry, error) {
			return []domainsync.ToolEntry{{Name: "send_report"}}, nil
		},
	}
	svc, _ := newTestService(defs, links, remote, &MockAssistantRepo{})

	result, err := svc.ReconcileOne(context.Background(), "a1", domainsync.ModePush, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Added) != 0 || len(remote.replaced) != 0 {
		t.Errorf("converged state must be a no-op, added=%v replaced=%d", result.Added, len(remote.replaced))
	}
}

func TestReconcileOne_PullRemovesUnaccountedTools(t *testing.T) {
	links := &MockLinkRepo{
		ListEnabledFunc: func(ctx context.Context, assistantID string) ([]*function.Link, error) {
			return nil, nil
		},
	}
	remote := &MockRemoteAPI{
		ListToolsFunc: func(ctx context.Context, remoteRef string) ([]domainsync.ToolEntry, error) {
			return []domainsync.ToolEntry{{Name: "orphan_one"}, {Name: "orphan_two"}}, nil
		},
	}
	svc, _ := newTestService(&MockDefinitionRepo{}, links, remote, &MockAssistantRepo{})

	result, err := svc.ReconcileOne(context.Background(), "a1", domainsync.ModePull, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Removed) != 2 {
		t.Errorf("expected two removals, got %v", result.Removed)
	}
	if len(remote.replaced) != 1 || len(remote.replaced[0]) != 0 {
		t.Errorf("expected remote list replaced with empty set, got %v", remote.replaced)
	}
}

func TestReconcileOne_ExclusionKeepsFunctionOut(t *testing.T) {
	defs := &MockDefinitionRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*function.Definition, error) {
			return defNamed(id, "fn "+id), nil
		},
	}
	links := &MockLinkRepo{
		ListEnabledFunc: func(ctx context.Context, assistantID string) ([]*function.Link, error) {
			return []*function.Link{linkTo("l1", "f1"), linkTo("l2", "f2")}, nil
		},
	}
	remote := &MockRemoteAPI{}
	svc, _ := newTestService(defs, links, remote, &MockAssistantRepo{})

	result, err := svc.ReconcileOne(context.Background(), "a1", domainsync.ModePush, []string{"f1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Added) != 1 || result.Added[0] != "fn_f2" {
		t.Errorf("excluded function must not be pushed, got %v", result.Added)
	}
}

func TestReconcileOne_CanonicalCollisionKeepsFirst(t *testing.T) {
	names := map[string]string{"f1": "Send Report", "f2": "send report"}
	defs := &MockDefinitionRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*function.Definition, error) {
			return defNamed(id, names[id]), nil
		},
	}
	links := &MockLinkRepo{
		ListEnabledFunc: func(ctx context.Context, assistantID string) ([]*function.Link, error) {
			return []*function.Link{linkTo("l1", "f1"), linkTo("l2", "f2")}, nil
		},
	}
	remote := &MockRemoteAPI{}
	svc, _ := newTestService(defs, links, remote, &MockAssistantRepo{})

	result, err := svc.ReconcileOne(context.Background(), "a1", domainsync.ModePush, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Added) != 1 {
		t.Errorf("colliding canonical names must collapse to one tool, got %v", result.Added)
	}
}

func TestReconcileOne_InvalidMode(t *testing.T) {
	svc, _ := newTestService(&MockDefinitionRepo{}, &MockLinkRepo{}, &MockRemoteAPI{}, &MockAssistantRepo{})

	_, err := svc.ReconcileOne(context.Background(), "a1", domainsync.Mode("sideways"), nil)
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestReconcileAll_IsolatesPerAssistantFailures(t *testing.T) {
	assistants := &MockAssistantRepo{
		ListFunc: func(ctx context.Context) ([]*assistant.Assistant, error) {
			return []*assistant.Assistant{
				{ID: "a1", RemoteRef: "asst_a1"},
				{ID: "a2", RemoteRef: "asst_a2"},
			}, nil
		},
	}
	remote := &MockRemoteAPI{
		ListToolsFunc: func(ctx context.Context, remoteRef string) ([]domainsync.ToolEntry, error) {
			if remoteRef == "asst_a1" {
				return nil, errors.New("remote unavailable")
			}
			return nil, nil
		},
	}
	links := &MockLinkRepo{
		ListEnabledFunc: func(ctx context.Context, assistantID string) ([]*function.Link, error) {
			return nil, nil
		},
	}
	svc, _ := newTestService(&MockDefinitionRepo{}, links, remote, assistants)

	results, err := svc.ReconcileAll(context.Background(), domainsync.ModePush, nil)
	if err != nil {
		t.Fatalf("bulk run must not fail outright: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected a slot per assistant, got %d", len(results))
	}
	if results[0].Error == "" {
		t.Errorf("expected error recorded for a1")
	}
	if results[1].Error != "" {
		t.Errorf("expected a2 to succeed, got %q", results[1].Error)
	}
}

func TestReconcileAll_RecordsSyncActivity(t *testing.T) {
	assistants := &MockAssistantRepo{
		ListFunc: func(ctx context.Context) ([]*assistant.Assistant, error) {
			return []*assistant.Assistant{{ID: "a1", RemoteRef: "asst_a1"}}, nil
		},
	}
	defs := &MockDefinitionRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*function.Definition, error) {
			return defNamed(id, "weekly digest"), nil
		},
	}
	links := &MockLinkRepo{
		ListEnabledFunc: func(ctx context.Context, assistantID string) ([]*function.Link, error) {
			return []*function.Link{linkTo("l1", "f1")}, nil
		},
	}
	svc, activityRepo := newTestService(defs, links, &MockRemoteAPI{}, assistants)

	if _, err := svc.ReconcileAll(context.Background(), domainsync.ModePush, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, entry := range activityRepo.entries {
		if entry.Action == activity.ActionFunctionsSynced {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a functions_synced activity entry")
	}
}

func TestReconcileOne_SkipsLinksWithMissingDefinitions(t *testing.T) {
	defs := &MockDefinitionRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*function.Definition, error) {
			if id == "gone" {
				return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "not found", nil, "")
			}
			return defNamed(id, "alive"), nil
		},
	}
	links := &MockLinkRepo{
		ListEnabledFunc: func(ctx context.Context, assistantID string) ([]*function.Link, error) {
			return []*function.Link{linkTo("l1", "gone"), linkTo("l2", "f2")}, nil
		},
	}
	svc, _ := newTestService(defs, links, &MockRemoteAPI{}, &MockAssistantRepo{})

	result, err := svc.ReconcileOne(context.Background(), "a1", domainsync.ModePush, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Added) != 1 || result.Added[0] != "alive" {
		t.Errorf("dangling link must be skipped, got %v", result.Added)
	}
}
