package logging

import (
	"log/slog"
	"regexp"
)

// Secret patterns masked in log output. The smoke tool routinely logs target
// configuration; the key must never appear in diagnostics.
var secretPatterns = []struct {
	regex       *regexp.Regexp
	replacement string
}{
	// Bearer tokens
	{regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`), "Bearer ***"},

	// API keys (sk- prefixed or key=... style)
	{regexp.MustCompile(`(sk-[a-zA-Z0-9]+|api[-_]?key[-_:=]\s*[a-zA-Z0-9-]+)`), "***"},
}

// redactAttr is a slog ReplaceAttr hook that masks secrets in string values.
func redactAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}

	val := a.Value.String()
	for _, p := range secretPatterns {
		val = p.regex.ReplaceAllString(val, p.replacement)
	}
	return slog.Attr{Key: a.Key, Value: slog.StringValue(val)}
}

// Redact masks secrets in a single string. It is used where raw request
// diagnostics are printed outside the logger.
func Redact(s string) string {
	for _, p := range secretPatterns {
		s = p.regex.ReplaceAllString(s, p.replacement)
	}
	return s
}
