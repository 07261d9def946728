package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Header names understood by the proxy.
const (
	HeaderProvider  = "X-Model-Provider"
	HeaderRequestID = "X-Request-ID"
)

// Endpoint paths on the proxy.
const (
	PathHealth          = "/health"
	PathModels          = "/v1/models"
	PathChatCompletions = "/v1/chat/completions"
)

// Config contains the settings for a Client.
type Config struct {
	// BaseURL is the base address of the proxy under test,
	// e.g. "http://localhost:3000".
	BaseURL string

	// APIKey is the bearer token sent on authenticated requests.
	APIKey string

	// Provider is the value of the provider-selector header, instructing the
	// proxy which backend integration to route to.
	Provider string

	// Timeout bounds each request end to end, including reading a streaming
	// body. Zero means no timeout.
	Timeout time.Duration

	// MaxIdleConns is the connection pool size across all hosts.
	MaxIdleConns int

	// MaxIdleConnsPerHost is the connection pool size per host.
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long idle connections are kept in the pool.
	IdleConnTimeout time.Duration
}

// Client is an HTTP client for one AI-proxy target. Requests are never
// retried; the first outcome is reported to the caller.
type Client struct {
	config Config
	client *http.Client
}

// New creates a Client for the given target.
func New(config Config) *Client {
	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
	}
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.config
}

// Health probes the proxy's unauthenticated health endpoint and returns the
// decoded JSON body.
func (c *Client) Health(ctx context.Context) (map[string]interface{}, error) {
	resp, err := c.do(ctx, http.MethodGet, PathHealth, nil, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body map[string]interface{}
	if err := c.decode(resp.Body, &body); err != nil {
		return nil, err
	}
	return body, nil
}

// ListModels fetches the models available through the configured provider.
func (c *Client) ListModels(ctx context.Context) (*ModelList, error) {
	resp, err := c.do(ctx, http.MethodGet, PathModels, nil, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var list ModelList
	if err := c.decode(resp.Body, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateChatCompletion issues a non-streaming chat completion request.
func (c *Client) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if req.Stream {
		return nil, fmt.Errorf("streaming request passed to CreateChatCompletion, use StreamChatCompletion")
	}

	resp, err := c.do(ctx, http.MethodPost, PathChatCompletions, req, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var completion ChatCompletionResponse
	if err := c.decode(resp.Body, &completion); err != nil {
		return nil, err
	}
	return &completion, nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.client.CloseIdleConnections()
}

// do performs a single HTTP request against the proxy. Transport failures
// are classified into TimeoutError or ConnectionError; non-2xx responses
// become a StatusError carrying the raw body. There is no retry path.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, authenticated bool) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if authenticated {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
		req.Header.Set(HeaderProvider, c.config.Provider)
		req.Header.Set(HeaderRequestID, uuid.NewString())
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.Canceled):
			// Caller cancellation (e.g. Ctrl+C) is not a timeout.
			return nil, ctx.Err()
		case errors.Is(ctx.Err(), context.DeadlineExceeded) || isTimeout(err):
			return nil, &TimeoutError{Timeout: c.config.Timeout}
		default:
			return nil, &ConnectionError{BaseURL: c.config.BaseURL, Cause: err}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	return resp, nil
}

// decode reads and unmarshals a JSON response body.
func (c *Client) decode(body io.Reader, v interface{}) error {
	raw, err := io.ReadAll(body)
	if err != nil {
		return &ConnectionError{BaseURL: c.config.BaseURL, Cause: err}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &ParseError{Raw: string(raw), Cause: err}
	}
	return nil
}

// isTimeout reports whether a transport error is a timeout.
func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
