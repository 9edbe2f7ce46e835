package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"assistant-platform/services/function-gateway/internal/domain/function"
	domainsync "assistant-platform/services/function-gateway/internal/domain/sync"
	"assistant-platform/services/function-gateway/internal/interfaces/httpserver/handlers"
	"assistant-platform/services/function-gateway/internal/utils/platformerrors"
)

type MockFunctionService struct {
	CreateFunc     func(ctx context.Context, params function.CreateParams) (*function.Definition, error)
	GetByIDFunc    func(ctx context.Context, id string) (*function.Definition, error)
	ListFunc       func(ctx context.Context) ([]*function.Definition, error)
	UpdateFunc     func(ctx context.Context, id string, params function.UpdateParams) (*function.Definition, error)
	DeleteFunc     func(ctx context.Context, id string) error
	AttachFunc     func(ctx context.Context, functionID, assistantID string, params function.AttachParams) (*function.Link, error)
	UpdateLinkFunc func(ctx context.Context, linkID string, params function.UpdateLinkParams) (*function.Link, error)
	DetachFunc     func(ctx context.Context, linkID string) (*function.Link, error)
	GetLinkFunc    func(ctx context.Context, linkID string) (*function.Link, error)
	ListLinksFunc  func(ctx context.Context, assistantID string) ([]*function.Link, error)
}

func (m *MockFunctionService) Create(ctx context.Context, params function.CreateParams) (*function.Definition, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockFunctionService) GetByID(ctx context.Context, id string) (*function.Definition, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockFunctionService) List(ctx context.Context) ([]*function.Definition, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockFunctionService) Update(ctx context.Context, id string, params function.UpdateParams) (*function.Definition, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockFunctionService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockFunctionService) Attach(ctx context.Context, functionID, assistantID string, params function.AttachParams) (*function.Link, error) {
	if m.AttachFunc != nil {
		return m.AttachFunc(ctx, functionID, assistantID, params)
	}
	return nil, nil
}

func (m *MockFunctionService) UpdateLink(ctx context.Context, linkID string, params function.UpdateLinkParams) (*function.Link, error) {
	if m.UpdateLinkFunc != nil {
		return m.UpdateLinkFunc(ctx, linkID, params)
	}
	return nil, nil
}

func (m *MockFunctionService) Detach(ctx context.Context, linkID string) (*function.Link, error) {
	if m.DetachFunc != nil {
		return m.DetachFunc(ctx, linkID)
	}
	return nil, nil
}

func (m *MockFunctionService) GetLink(ctx context.Context, linkID string) (*function.Link, error) {
	if m.GetLinkFunc != nil {
		return m.GetLinkFunc(ctx, linkID)
	}
	return nil, nil
}

func (m *MockFunctionService) ListLinks(ctx context.Context, assistantID string) ([]*function.Link, error) {
	if m.ListLinksFunc != nil {
		return m.ListLinksFunc(ctx, assistantID)
	}
	return nil, nil
}

func setupFunctionTestRouter(handler *handlers.FunctionHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/v1/functions", handler.Create)
	router.GET("/v1/functions/:id", handler.Get)
	router.POST("/v1/functions/:id/links", handler.Attach)
	router.DELETE("/v1/links/:id", handler.Detach)
	return router
}

func TestFunctionHandler_Create(t *testing.T) {
	mockService := &MockFunctionService{
		CreateFunc: func(ctx context.Context, params function.CreateParams) (*function.Definition, error) {
			if params.Name != "Звонок клиента" {
				t.Errorf("unexpected name %q", params.Name)
			}
			return &function.Definition{ID: "f1", Name: params.Name}, nil
		},
	}
	handler := handlers.NewFunctionHandler(mockService, &MockSyncService{}, zerolog.Nop())
	router := setupFunctionTestRouter(handler)

	jsonBody, _ := json.Marshal(map[string]interface{}{
		"name":        "Звонок клиента",
		"description": "records an inbound call",
	})
	req, _ := http.NewRequest("POST", "/v1/functions", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response["canonical_name"] != "zvonok_klienta" {
		t.Errorf("expected canonical name in payload, got %v", response["canonical_name"])
	}
}

func TestFunctionHandler_CreateCollisionConflict(t *testing.T) {
	mockService := &MockFunctionService{
		CreateFunc: func(ctx context.Context, params function.CreateParams) (*function.Definition, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
				"another function normalizes to the same canonical name", nil, "function-create-collision-001")
		},
	}
	handler := handlers.NewFunctionHandler(mockService, &MockSyncService{}, zerolog.Nop())
	router := setupFunctionTestRouter(handler)

	jsonBody, _ := json.Marshal(map[string]interface{}{"name": "Zvonok Klienta"})
	req, _ := http.NewRequest("POST", "/v1/functions", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestFunctionHandler_GetNotFound(t *testing.T) {
	mockService := &MockFunctionService{
		GetByIDFunc: func(ctx context.Context, id string) (*function.Definition, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				"function not found", nil, "function-get-db-001")
		},
	}
	handler := handlers.NewFunctionHandler(mockService, &MockSyncService{}, zerolog.Nop())
	router := setupFunctionTestRouter(handler)

	req, _ := http.NewRequest("GET", "/v1/functions/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestFunctionHandler_AttachDefaultsEnabled(t *testing.T) {
	mockService := &MockFunctionService{
		AttachFunc: func(ctx context.Context, functionID, assistantID string, params function.AttachParams) (*function.Link, error) {
			if !params.Enabled || !params.ChannelEnabled {
				t.Errorf("omitted flags must default to enabled, got %+v", params)
			}
			return &function.Link{ID: "l1", FunctionID: functionID, AssistantID: assistantID, Enabled: params.Enabled, ChannelEnabled: params.ChannelEnabled}, nil
		},
	}
	handler := handlers.NewFunctionHandler(mockService, &MockSyncService{}, zerolog.Nop())
	router := setupFunctionTestRouter(handler)

	jsonBody, _ := json.Marshal(map[string]interface{}{"assistant_id": "a1"})
	req, _ := http.NewRequest("POST", "/v1/functions/f1/links", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestFunctionHandler_DetachTriggersPullReconcile(t *testing.T) {
	mockService := &MockFunctionService{
		DetachFunc: func(ctx context.Context, linkID string) (*function.Link, error) {
			return &function.Link{ID: linkID, FunctionID: "f1", AssistantID: "a1"}, nil
		},
	}

	var gotMode domainsync.Mode
	var gotExcluded []string
	mockSync := &MockSyncService{
		ReconcileOneFunc: func(ctx context.Context, assistantID string, mode domainsync.Mode, excludeFunctionIDs []string) (*domainsync.Result, error) {
			gotMode = mode
			gotExcluded = excludeFunctionIDs
			return &domainsync.Result{Added: []string{}, Removed: []string{"zvonok_klienta"}}, nil
		},
	}
	handler := handlers.NewFunctionHandler(mockService, mockSync, zerolog.Nop())
	router := setupFunctionTestRouter(handler)

	req, _ := http.NewRequest("DELETE", "/v1/links/l1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}
	if gotMode != domainsync.ModePull {
		t.Errorf("detach must trigger a pull reconcile, got %s", gotMode)
	}
	if len(gotExcluded) != 1 || gotExcluded[0] != "f1" {
		t.Errorf("detached function must be excluded, got %v", gotExcluded)
	}
}

func TestFunctionHandler_DetachSucceedsWhenReconcileFails(t *testing.T) {
	mockService := &MockFunctionService{
		DetachFunc: func(ctx context.Context, linkID string) (*function.Link, error) {
			return &function.Link{ID: linkID, FunctionID: "f1", AssistantID: "a1"}, nil
		},
	}
	mockSync := &MockSyncService{
		ReconcileOneFunc: func(ctx context.Context, assistantID string, mode domainsync.Mode, excludeFunctionIDs []string) (*domainsync.Result, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
				"fetch remote tool list", nil, "sync-remote-fetch-001")
		},
	}
	handler := handlers.NewFunctionHandler(mockService, mockSync, zerolog.Nop())
	router := setupFunctionTestRouter(handler)

	req, _ := http.NewRequest("DELETE", "/v1/links/l1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("detach must not fail on reconcile errors, got %d", w.Code)
	}
}
