// Proxyprobe is a smoke-check tool for OpenAI-compatible AI proxies.
//
// It exercises a proxy's health endpoint, model listing, non-streaming and
// streaming chat completions, and system-prompt handling, printing a
// human-readable transcript of each check.
//
// Usage:
//
//	# Run the check suite against the default target
//	proxyprobe check
//
//	# Run against another proxy
//	proxyprobe check --base-url http://proxy.example.com:3000
//
//	# Run continuously on a schedule with a metrics endpoint
//	proxyprobe monitor
//
//	# Inspect past runs
//	proxyprobe history list
//
//	# Show version information
//	proxyprobe version
package main

func main() {
	Execute()
}
