package client

import (
	"fmt"
	"time"
)

// ConnectionError represents a network-level failure: connection refused,
// DNS resolution failure, or an interrupted transfer.
type ConnectionError struct {
	// BaseURL is the target address that could not be reached
	BaseURL string

	// Cause is the underlying transport error
	Cause error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to %s: %v", e.BaseURL, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// StatusError represents a non-2xx HTTP response.
// The raw body is retained so callers can surface the server's diagnostic.
type StatusError struct {
	// StatusCode is the HTTP status code returned by the server
	StatusCode int

	// Body is the raw response body
	Body string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// TimeoutError represents a request that exceeded the configured timeout.
type TimeoutError struct {
	// Timeout is the configured timeout duration
	Timeout time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Timeout)
}

// ParseError represents a malformed response body or stream chunk.
type ParseError struct {
	// Raw is the payload that failed to parse
	Raw string

	// Cause is the underlying decode error
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("response parse error: %v", e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// StreamError represents a transport failure while reading a streaming
// response body.
type StreamError struct {
	// Message describes where in the stream lifecycle the failure occurred
	Message string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("stream error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("stream error: %s", e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *StreamError) Unwrap() error {
	return e.Cause
}
