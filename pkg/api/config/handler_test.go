package config

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stock_dashboard/pkg/core/agent"
	"stock_dashboard/pkg/core/llm"
)

type nopProvider struct{}

func (nopProvider) GenerateResponse(ctx context.Context, prompt, systemPrompt string, options map[string]interface{}) (string, error) {
	return `{"polarity": 0}`, nil
}

func (nopProvider) AdaptInstructions(raw string) string { return raw }

func newTestHandler() *Handler {
	mgr := agent.NewManagerWithProviders(agent.Config{ActiveProvider: "gemini"}, map[string]llm.Provider{
		"gemini":   nopProvider{},
		"deepseek": nopProvider{},
	})
	return NewHandler(mgr, "llm")
}

func TestHandleConfig(t *testing.T) {
	h := newTestHandler()
	w := httptest.NewRecorder()
	h.HandleConfig(w, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.ActiveProvider != "gemini" {
		t.Errorf("expected gemini, got %s", resp.ActiveProvider)
	}
	if strings.Join(resp.Available, ",") != "deepseek,gemini" {
		t.Errorf("expected sorted providers, got %v", resp.Available)
	}
	if resp.Scorer != "llm" {
		t.Errorf("expected llm scorer, got %s", resp.Scorer)
	}
}

func TestHandleSwitch(t *testing.T) {
	h := newTestHandler()

	w := httptest.NewRecorder()
	h.HandleSwitch(w, httptest.NewRequest(http.MethodPost, "/api/config/switch", strings.NewReader(`{"provider":"deepseek"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if h.AgentMgr.GetActiveProvider() != "deepseek" {
		t.Errorf("expected deepseek active, got %s", h.AgentMgr.GetActiveProvider())
	}

	w = httptest.NewRecorder()
	h.HandleSwitch(w, httptest.NewRequest(http.MethodPost, "/api/config/switch", strings.NewReader(`{"provider":"openai"}`)))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown provider, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.HandleSwitch(w, httptest.NewRequest(http.MethodPost, "/api/config/switch", strings.NewReader(`not json`)))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad body, got %d", w.Code)
	}
}
