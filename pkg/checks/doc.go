// Package checks implements the smoke checks run against an AI proxy.
//
// Five checks exercise the proxy's OpenAI-compatible surface: the health
// endpoint, model listing, a non-streaming chat completion, a streaming
// chat completion, and a completion carrying a system prompt. A Suite runs
// them in that fixed order. A health failure aborts the run because every
// later check assumes a reachable server; any other failure is recorded and
// the remaining checks still run.
package checks
