package logging

import (
	"regexp"
	"strings"
)

// Redactor masks secrets and mail addresses in log fields.
type Redactor struct {
	patterns []redactPattern
}

// redactPattern pairs a compiled regex with its replacement.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// NewRedactor creates a Redactor with the built-in patterns.
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []redactPattern{
			{
				name:        "bearer_token",
				regex:       regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`),
				replacement: "Bearer ***",
			},
			{
				name:        "api_key_field",
				regex:       regexp.MustCompile(`(?i)(api[-_]?key|shared[-_]?secret)[:=]\s*\S+`),
				replacement: "$1=***",
			},
			{
				// Email local parts carry PII; the domain stays visible
				// because routing problems are debugged by domain.
				name:        "email",
				regex:       regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@([a-zA-Z0-9.-]+\.[a-zA-Z]{2,})\b`),
				replacement: "***@$1",
			},
		},
	}
}

// RedactString masks secrets and addresses in a string value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// RedactArgs masks secrets in variadic slog arguments of the form
// key1, value1, key2, value2. Values under sensitive keys are masked
// entirely; all string values pass through the pattern set.
func (r *Redactor) RedactArgs(args ...any) []any {
	if len(args) == 0 {
		return args
	}

	redacted := make([]any, len(args))
	copy(redacted, args)

	for i := 1; i < len(redacted); i += 2 {
		if key, ok := redacted[i-1].(string); ok && isSensitiveKey(key) {
			redacted[i] = maskValue(redacted[i])
			continue
		}
		if s, ok := redacted[i].(string); ok {
			redacted[i] = r.RedactString(s)
		}
	}
	return redacted
}

// isSensitiveKey reports whether a field name indicates secret material.
func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range []string{
		"password", "secret", "token", "api_key", "apikey",
		"authorization", "private_key", "privatekey", "credential",
	} {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// maskValue hides a sensitive value, keeping a short prefix of longer
// strings so operators can tell keys apart.
func maskValue(value any) any {
	s, ok := value.(string)
	if !ok {
		return "***"
	}
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "***"
}

// MaskAPIKey masks an API key for display, keeping only a prefix.
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:4] + "***"
}

// MaskEmail masks an email address, keeping the first character of the
// local part and the full domain.
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return email
	}
	return email[:1] + "***" + email[at:]
}
