// Package probetest provides a mock AI-proxy server for package tests.
package probetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockServer simulates an AI-proxy exposing the OpenAI-compatible surface:
// /health, /v1/models, and /v1/chat/completions (streaming and not).
type MockServer struct {
	server       *httptest.Server
	responses    map[string]MockResponse
	requestCount map[string]int
	mu           sync.Mutex
}

// MockResponse defines a mock response configuration for one path.
type MockResponse struct {
	StatusCode   int
	Body         interface{}
	Delay        time.Duration
	Headers      map[string]string
	StreamChunks []string // SSE payloads; [DONE] is appended automatically
	OmitDone     bool     // suppress the trailing [DONE] sentinel
}

// NewMockServer creates a mock proxy preloaded with healthy defaults for all
// three endpoints. Individual paths can be overridden with SetResponse.
func NewMockServer() *MockServer {
	ms := &MockServer{
		responses:    make(map[string]MockResponse),
		requestCount: make(map[string]int),
	}

	ms.SetResponse("/health", MockResponse{
		StatusCode: http.StatusOK,
		Body:       map[string]string{"status": "ok"},
	})
	ms.SetResponse("/v1/models", MockResponse{
		StatusCode: http.StatusOK,
		Body:       ModelsBody("claude-3-sonnet-20240229", "anthropic"),
	})
	ms.SetResponse("/v1/chat/completions", MockResponse{
		StatusCode: http.StatusOK,
		Body:       CompletionBody("Hello from the mock proxy.", "claude-3-sonnet-20240229"),
	})

	ms.server = httptest.NewServer(http.HandlerFunc(ms.handler))
	return ms
}

// URL returns the mock server's base URL.
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// Close closes the mock server.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// SetResponse sets the mock response for a specific path.
func (ms *MockServer) SetResponse(path string, response MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.responses[path] = response
}

// RequestCount returns the number of requests received for a path.
func (ms *MockServer) RequestCount(path string) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.requestCount[path]
}

func (ms *MockServer) handler(w http.ResponseWriter, r *http.Request) {
	ms.mu.Lock()
	ms.requestCount[r.URL.Path]++
	response, ok := ms.responses[r.URL.Path]
	ms.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if response.Delay > 0 {
		time.Sleep(response.Delay)
	}

	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}

	// Streaming responses ignore Body and emit SSE chunks. A chat completion
	// request with stream=true picks the stream branch only when chunks are
	// configured.
	if len(response.StreamChunks) > 0 && wantsStream(r) {
		ms.handleStream(w, response)
		return
	}

	w.WriteHeader(response.StatusCode)
	if response.Body != nil {
		switch v := response.Body.(type) {
		case string:
			_, _ = w.Write([]byte(v))
		case []byte:
			_, _ = w.Write(v)
		default:
			_ = json.NewEncoder(w).Encode(response.Body)
		}
	}
}

// wantsStream reports whether the request body sets the streaming flag.
func wantsStream(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	var body struct {
		Stream bool `json:"stream"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return false
	}
	return body.Stream
}

func (ms *MockServer) handleStream(w http.ResponseWriter, response MockResponse) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	for _, chunk := range response.StreamChunks {
		fmt.Fprintf(w, "data: %s\n\n", chunk)
		flusher.Flush()
	}

	if !response.OmitDone {
		fmt.Fprintf(w, "data: [DONE]\n\n")
		flusher.Flush()
	}
}

// ModelsBody builds a /v1/models response with one model entry per id/owner
// pair. Pass an empty owner to omit the owned_by field.
func ModelsBody(pairs ...string) map[string]interface{} {
	if len(pairs)%2 != 0 {
		panic("ModelsBody requires id/owner pairs")
	}

	data := make([]map[string]interface{}, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		entry := map[string]interface{}{
			"id":     pairs[i],
			"object": "model",
		}
		if pairs[i+1] != "" {
			entry["owned_by"] = pairs[i+1]
		}
		data = append(data, entry)
	}

	return map[string]interface{}{
		"object": "list",
		"data":   data,
	}
}

// CompletionBody builds a non-streaming chat completion response.
func CompletionBody(content, model string) map[string]interface{} {
	return map[string]interface{}{
		"id":      "chatcmpl-mock",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   model,
		"choices": []map[string]interface{}{
			{
				"index": 0,
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]interface{}{
			"prompt_tokens":     10,
			"completion_tokens": 20,
			"total_tokens":      30,
		},
	}
}

// StreamChunk builds one SSE payload carrying a content delta.
func StreamChunk(delta string) string {
	chunk := map[string]interface{}{
		"id":      "chatcmpl-mock",
		"object":  "chat.completion.chunk",
		"created": time.Now().Unix(),
		"model":   "claude-3-sonnet-20240229",
		"choices": []map[string]interface{}{
			{
				"index": 0,
				"delta": map[string]interface{}{
					"content": delta,
				},
				"finish_reason": nil,
			},
		},
	}

	bytes, _ := json.Marshal(chunk)
	return string(bytes)
}

// ErrorBody builds an error response body in the proxy's error shape.
func ErrorBody(message string) map[string]interface{} {
	return map[string]interface{}{
		"error": map[string]interface{}{
			"message": message,
			"type":    "invalid_request_error",
		},
	}
}
