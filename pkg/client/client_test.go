package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:  baseURL,
		APIKey:   "test-key-123",
		Provider: "kiro-api",
		Timeout:  5 * time.Second,
	}
}

func TestClient_Health(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != PathHealth {
			t.Errorf("expected path %s, got %s", PathHealth, r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		// The health probe is unauthenticated
		if r.Header.Get("Authorization") != "" {
			t.Error("health request must not carry an Authorization header")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	c := New(testConfig(server.URL))
	defer c.Close()

	body, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
}

func TestClient_Health_ConnectionRefused(t *testing.T) {
	// Grab a port that nothing listens on
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := New(testConfig(url))
	defer c.Close()

	_, err := c.Health(context.Background())
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}

	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected ConnectionError, got %T: %v", err, err)
	}
}

func TestClient_ListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key-123" {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		if got := r.Header.Get(HeaderProvider); got != "kiro-api" {
			t.Errorf("unexpected provider header: %q", got)
		}
		if r.Header.Get(HeaderRequestID) == "" {
			t.Error("expected X-Request-ID header")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"object": "list",
			"data": []map[string]string{
				{"id": "claude-3-sonnet-20240229", "object": "model", "owned_by": "anthropic"},
				{"id": "claude-3-haiku-20240307", "object": "model"},
			},
		})
	}))
	defer server.Close()

	c := New(testConfig(server.URL))
	defer c.Close()

	list, err := c.ListModels(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Data) != 2 {
		t.Fatalf("expected 2 models, got %d", len(list.Data))
	}
	if list.Data[0].ID != "claude-3-sonnet-20240229" {
		t.Errorf("unexpected model id: %q", list.Data[0].ID)
	}
	if list.Data[0].OwnedBy != "anthropic" {
		t.Errorf("unexpected owner: %q", list.Data[0].OwnedBy)
	}
	if list.Data[1].OwnedBy != "" {
		t.Errorf("expected empty owner, got %q", list.Data[1].OwnedBy)
	}
}

func TestClient_ListModels_NonOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer server.Close()

	c := New(testConfig(server.URL))
	defer c.Close()

	_, err := c.ListModels(context.Background())
	if err == nil {
		t.Fatal("expected error for 401 response")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", statusErr.StatusCode)
	}
	if !strings.Contains(statusErr.Body, "invalid api key") {
		t.Errorf("expected raw body in error, got %q", statusErr.Body)
	}
}

func TestClient_CreateChatCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected Content-Type: %q", got)
		}

		var req ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "claude-3-sonnet-20240229" {
			t.Errorf("unexpected model: %q", req.Model)
		}
		if req.Stream {
			t.Error("non-streaming request must not set stream")
		}
		if req.MaxTokens == nil || *req.MaxTokens != 100 {
			t.Errorf("unexpected max_tokens: %v", req.MaxTokens)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ChatCompletionResponse{
			ID:     "chatcmpl-123",
			Object: "chat.completion",
			Model:  req.Model,
			Choices: []Choice{
				{Message: Message{Role: RoleAssistant, Content: "Hello there"}, FinishReason: "stop"},
			},
			Usage: Usage{PromptTokens: 12, CompletionTokens: 4, TotalTokens: 16},
		})
	}))
	defer server.Close()

	c := New(testConfig(server.URL))
	defer c.Close()

	maxTokens := 100
	resp, err := c.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Model:     "claude-3-sonnet-20240229",
		Messages:  []Message{{Role: RoleUser, Content: "Hello"}},
		MaxTokens: &maxTokens,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content() != "Hello there" {
		t.Errorf("unexpected content: %q", resp.Content())
	}
	if resp.Usage.TotalTokens != 16 {
		t.Errorf("unexpected total tokens: %d", resp.Usage.TotalTokens)
	}
}

func TestClient_CreateChatCompletion_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	c := New(testConfig(server.URL))
	defer c.Close()

	_, err := c.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Model:    "claude-3-sonnet-20240229",
		Messages: []Message{{Role: RoleUser, Content: "Hello"}},
	})

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Timeout = 20 * time.Millisecond
	c := New(cfg)
	defer c.Close()

	_, err := c.Health(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}

	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected TimeoutError, got %T: %v", err, err)
	}
}

func TestClient_CancelledContext(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := New(testConfig(server.URL))
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := c.Health(ctx)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %T: %v", err, err)
	}

	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		t.Errorf("cancellation must not be reported as TimeoutError: %v", err)
	}
}

func TestClient_BaseURLTrailingSlash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != PathHealth {
			t.Errorf("expected path %s, got %s", PathHealth, r.URL.Path)
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	c := New(testConfig(server.URL + "/"))
	defer c.Close()

	if _, err := c.Health(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
