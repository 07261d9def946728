package checks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"probehq/proxyprobe/pkg/client"
)

// checkHealth issues an unauthenticated GET against the health endpoint.
// This is the only check whose failure aborts the suite.
func (s *Suite) checkHealth(ctx context.Context) Result {
	fmt.Fprintln(s.out, "1. Checking health...")
	start := time.Now()

	body, err := s.client.Health(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "✗ cannot reach server: %v\n", err)
		fmt.Fprintln(s.out, "\nMake sure the proxy is running:")
		fmt.Fprintf(s.out, "  ./aiproxy --model-provider %s --api-key %s\n", s.provider, s.apiKey)
		return fail(CheckHealth, start, err)
	}

	fmt.Fprintln(s.out, "✓ server is up")
	fmt.Fprintf(s.out, "  response: %s\n", compactJSON(body))
	return pass(CheckHealth, start, "server is up")
}

// checkModels lists the models the proxy exposes for the configured provider.
func (s *Suite) checkModels(ctx context.Context) Result {
	fmt.Fprintln(s.out, "\n2. Listing models...")
	start := time.Now()

	list, err := s.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "✗ listing models failed: %v\n", err)
		return fail(CheckModels, start, err)
	}

	fmt.Fprintln(s.out, "✓ available models:")
	for _, model := range list.Data {
		owner := model.OwnedBy
		if owner == "" {
			owner = "unknown"
		}
		fmt.Fprintf(s.out, "  - %s (by %s)\n", model.ID, owner)
	}
	return pass(CheckModels, start, fmt.Sprintf("%d models", len(list.Data)))
}

// checkCompletion issues a non-streaming chat completion and prints the
// reply plus the token usage reported by the proxy.
func (s *Suite) checkCompletion(ctx context.Context) Result {
	fmt.Fprintln(s.out, "\n3. Checking chat completion...")
	start := time.Now()

	resp, err := s.client.CreateChatCompletion(ctx, &client.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []client.Message{
			{Role: client.RoleUser, Content: s.cfg.UserPrompt},
		},
		MaxTokens: intPtr(s.cfg.MaxTokens),
	})
	if err != nil {
		fmt.Fprintf(s.out, "✗ chat completion failed: %v\n", err)
		return fail(CheckCompletion, start, err)
	}

	fmt.Fprintln(s.out, "✓ reply:")
	fmt.Fprintf(s.out, "  %s\n", resp.Content())

	usage := resp.Usage
	fmt.Fprintf(s.out, "\n  Token usage: %d (prompt: %d, completion: %d)\n",
		usage.TotalTokens, usage.PromptTokens, usage.CompletionTokens)

	return pass(CheckCompletion, start, fmt.Sprintf("%d tokens", usage.TotalTokens))
}

// checkStreaming issues a streaming chat completion and prints each content
// delta as it arrives, so partial tokens concatenate into a running reply.
// Malformed chunks are discarded by the stream reader without interrupting
// the chunks around them.
func (s *Suite) checkStreaming(ctx context.Context) Result {
	fmt.Fprintln(s.out, "\n4. Checking streaming completion...")
	start := time.Now()

	stream, err := s.client.StreamChatCompletion(ctx, &client.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []client.Message{
			{Role: client.RoleUser, Content: s.cfg.StreamPrompt},
		},
		MaxTokens: intPtr(s.cfg.MaxTokens),
	})
	if err != nil {
		fmt.Fprintf(s.out, "✗ streaming request failed: %v\n", err)
		return fail(CheckStreaming, start, err)
	}
	defer stream.Close()

	fmt.Fprintln(s.out, "✓ streamed reply:")
	fmt.Fprint(s.out, "  ")

	chunks := 0
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Fprintf(s.out, "\n✗ stream interrupted: %v\n", err)
			result := fail(CheckStreaming, start, err)
			result.Chunks = chunks
			return result
		}
		chunks++
		fmt.Fprint(s.out, chunk.Content())
	}
	fmt.Fprintln(s.out)

	result := pass(CheckStreaming, start, fmt.Sprintf("%d chunks", chunks))
	result.Chunks = chunks
	return result
}

// checkSystemPrompt issues a completion whose message sequence leads with a
// system instruction.
func (s *Suite) checkSystemPrompt(ctx context.Context) Result {
	fmt.Fprintln(s.out, "\n5. Checking system prompt...")
	start := time.Now()

	resp, err := s.client.CreateChatCompletion(ctx, &client.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []client.Message{
			{Role: client.RoleSystem, Content: s.cfg.SystemPrompt},
			{Role: client.RoleUser, Content: s.cfg.SystemUserPrompt},
		},
		MaxTokens: intPtr(s.cfg.SystemMaxTokens),
	})
	if err != nil {
		fmt.Fprintf(s.out, "✗ system prompt completion failed: %v\n", err)
		return fail(CheckSystemPrompt, start, err)
	}

	fmt.Fprintln(s.out, "✓ reply (with system prompt):")
	fmt.Fprintf(s.out, "  %s\n", resp.Content())
	return pass(CheckSystemPrompt, start, "reply received")
}

func pass(check string, start time.Time, detail string) Result {
	return Result{
		Check:    check,
		Status:   StatusPass,
		Detail:   detail,
		Duration: time.Since(start),
	}
}

func fail(check string, start time.Time, err error) Result {
	return Result{
		Check:    check,
		Status:   StatusFail,
		Detail:   err.Error(),
		Duration: time.Since(start),
		Err:      err,
	}
}

func compactJSON(v interface{}) string {
	bytes, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(bytes)
}

func intPtr(n int) *int {
	return &n
}
