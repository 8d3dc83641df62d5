package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestQwenProvider_ChoicesAndText(t *testing.T) {
	var got qwenRequest
	reply := `{"output":{"choices":[{"message":{"content":"positive"}}]}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = qwenRequest{}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Write([]byte(reply))
	}))
	defer srv.Close()

	t.Setenv("DASHSCOPE_API_KEY", "")
	t.Setenv("QWEN_API_KEY", "fallback")
	p := &QwenProvider{BaseURL: srv.URL}

	out, err := p.GenerateResponse(context.Background(), "score", "system", map[string]interface{}{
		"response_format": map[string]interface{}{"type": "json_object"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "positive" {
		t.Errorf("expected positive, got %q", out)
	}
	if got.Parameters.ResponseFormat == nil || got.Parameters.ResponseFormat.Type != "json_object" {
		t.Errorf("expected json_object response format, got %+v", got.Parameters.ResponseFormat)
	}
	if got.Model != "qwen-max" {
		t.Errorf("expected default model qwen-max, got %s", got.Model)
	}

	reply = `{"output":{"text":"neutral"}}`
	out, err = p.GenerateResponse(context.Background(), "score", "system", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "neutral" {
		t.Errorf("expected neutral, got %q", out)
	}
	if got.Parameters.ResponseFormat != nil {
		t.Errorf("expected no response format in text mode, got %+v", got.Parameters.ResponseFormat)
	}

	reply = `{"code":"Throttling","message":"slow down"}`
	if _, err := p.GenerateResponse(context.Background(), "score", "system", nil); err == nil || !strings.Contains(err.Error(), "Throttling") {
		t.Errorf("expected throttling error, got %v", err)
	}
}

func TestQwenProvider_MissingKey(t *testing.T) {
	t.Setenv("DASHSCOPE_API_KEY", "")
	t.Setenv("QWEN_API_KEY", "")
	p := &QwenProvider{BaseURL: "http://127.0.0.1:0"}
	if _, err := p.GenerateResponse(context.Background(), "x", "y", nil); err == nil || !strings.Contains(err.Error(), "QWEN_API_KEY_MISSING") {
		t.Errorf("expected missing key error, got %v", err)
	}
}
