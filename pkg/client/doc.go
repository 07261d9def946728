// Package client implements the HTTP client for an OpenAI-compatible
// AI-proxy server.
//
// The client covers the three endpoints exercised by the smoke checks:
//
//   - GET  /health               (unauthenticated liveness probe)
//   - GET  /v1/models            (model listing)
//   - POST /v1/chat/completions  (chat completions, streaming and not)
//
// Authenticated requests carry an Authorization bearer token, an
// X-Model-Provider header selecting the backend integration, and a unique
// X-Request-ID for correlation.
//
// Requests are never retried: the smoke checks report the first outcome they
// observe. Every request runs under a bounded timeout from the client
// configuration.
//
// Streaming responses are consumed through Stream, a line-oriented reader for
// Server-Sent Events that yields incremental content deltas in arrival order
// and terminates on the literal "[DONE]" sentinel. Malformed chunks are
// skipped without ending the stream.
//
// The package defines typed errors for the failure modes the checks
// distinguish:
//
//   - ConnectionError: the server could not be reached
//   - StatusError: a non-2xx response (includes status code and raw body)
//   - ParseError: a malformed response or stream chunk
//   - StreamError: a transport failure while reading a stream
//   - TimeoutError: the request exceeded the configured timeout
package client
