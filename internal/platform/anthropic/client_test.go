package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/provaloop/studyloop-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func newTestClient(t *testing.T, baseURL string) *client {
	t.Helper()
	return &client{
		log:        testLogger(t),
		baseURL:    baseURL,
		apiKey:     "test-key",
		model:      "test-model",
		httpClient: http.DefaultClient,
	}
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Errorf("missing anthropic-version header")
		}
		var req messagesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.MaxTokens != 1500 {
			t.Errorf("max_tokens = %d, want default 1500", req.MaxTokens)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{{"type": "text", "text": "generated text"}},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	out, err := c.Generate(context.Background(), "prompt", 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "generated text" {
		t.Fatalf("Generate = %q", out)
	}
}

func TestGenerateNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.Generate(context.Background(), "prompt", 100); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestGenerateEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"content": []map[string]any{}})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.Generate(context.Background(), "prompt", 100); err == nil {
		t.Fatal("expected error on empty content")
	}
}
