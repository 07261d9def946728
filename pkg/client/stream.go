package client

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// SSE framing constants.
const (
	// dataPrefix marks lines carrying a payload in the event stream.
	dataPrefix = "data: "

	// doneSentinel is the literal terminal payload. Once seen, the stream is
	// finished regardless of any further input.
	doneSentinel = "[DONE]"
)

// Stream reads Server-Sent Events from a streaming chat completion response.
// Lines are consumed in strict arrival order, one at a time; the stream is
// finite once the server closes the connection or the terminal sentinel
// arrives.
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	closed  bool
}

// StreamChatCompletion issues a chat completion request with the streaming
// flag forced on and opens the response body as an incremental line stream.
// The caller must Close the returned stream.
func (c *Client) StreamChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*Stream, error) {
	streamReq := *req
	streamReq.Stream = true

	resp, err := c.do(ctx, http.MethodPost, PathChatCompletions, &streamReq, true)
	if err != nil {
		return nil, err
	}

	return &Stream{
		body:    resp.Body,
		scanner: bufio.NewScanner(resp.Body),
	}, nil
}

// Recv returns the next well-formed chunk from the stream.
//
// It returns io.EOF on normal termination: either the "[DONE]" sentinel or
// the server closing the connection. A transport failure mid-stream returns a
// StreamError. A payload that fails to decode as JSON is discarded and
// consumption moves to the next line, so malformed chunks never interrupt
// delivery of the valid chunks around them.
func (s *Stream) Recv() (*ChatCompletionStreamChunk, error) {
	if s.closed {
		return nil, io.EOF
	}

	for {
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, &StreamError{Message: "failed to read stream", Cause: err}
			}
			return nil, io.EOF
		}

		line := s.scanner.Text()
		if line == "" {
			continue
		}

		// Skip non-data lines (comments, event types, etc.)
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		payload := strings.TrimPrefix(line, dataPrefix)

		if payload == doneSentinel {
			return nil, io.EOF
		}

		chunk, err := decodeChunk(payload)
		if err != nil {
			// A malformed or partial chunk is dropped here, locally. The
			// decode failure never propagates: the next valid chunk must
			// still reach the caller.
			continue
		}
		return chunk, nil
	}
}

// Close closes the stream and releases the underlying connection.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

// decodeChunk parses one SSE payload into a stream chunk.
func decodeChunk(payload string) (*ChatCompletionStreamChunk, error) {
	var chunk ChatCompletionStreamChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return nil, &ParseError{Raw: payload, Cause: err}
	}
	return &chunk, nil
}
