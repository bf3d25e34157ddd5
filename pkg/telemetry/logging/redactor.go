package logging

import (
	"net/url"
	"regexp"
	"strings"
)

// Redactor masks credentials in log fields. Upstream URLs frequently carry
// API keys in their query strings, so URLs get dedicated treatment.
type Redactor struct {
	patterns []*redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in pattern names.
const (
	PatternBearerToken = "bearer_token"
	PatternPassword    = "password"
)

const mask = "***"

var sensitiveKeys = []string{
	"password", "passwd", "pwd",
	"secret", "token", "api_key", "apikey", "key",
	"auth", "authorization", "signature", "sig",
	"private_key", "privatekey", "credential",
}

// NewRedactor creates a Redactor with the built-in patterns.
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []*redactPattern{
			{
				name:        PatternBearerToken,
				regex:       regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`),
				replacement: "Bearer " + mask,
			},
			{
				name:        PatternPassword,
				regex:       regexp.MustCompile(`(password|passwd|pwd)[:=]\s*[^\s&]+`),
				replacement: "$1=" + mask,
			},
		},
	}
}

// RedactString applies the built-in patterns to value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}

	redacted := value
	for _, pattern := range r.patterns {
		redacted = pattern.regex.ReplaceAllString(redacted, pattern.replacement)
	}
	return redacted
}

// RedactURL masks userinfo passwords and the values of sensitive query
// parameters. Unparsable input falls back to RedactString.
func (r *Redactor) RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return r.RedactString(raw)
	}

	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), mask)
		}
	}

	if u.RawQuery != "" {
		parts := strings.Split(u.RawQuery, "&")
		for i, part := range parts {
			name, _, found := strings.Cut(part, "=")
			decoded, err := url.QueryUnescape(name)
			if err != nil {
				decoded = name
			}
			if found && isSensitiveKey(decoded) {
				parts[i] = name + "=" + mask
			}
		}
		u.RawQuery = strings.Join(parts, "&")
	}

	return u.String()
}

// RedactArgs redacts sensitive values from variadic log arguments.
// Args are in the form: key1, value1, key2, value2, ...
func (r *Redactor) RedactArgs(args ...any) []any {
	if len(args) == 0 {
		return args
	}

	redacted := make([]any, len(args))
	copy(redacted, args)

	for i := 1; i < len(redacted); i += 2 {
		key, ok := redacted[i-1].(string)
		if ok && isSensitiveKey(key) {
			redacted[i] = mask
			continue
		}
		if str, ok := redacted[i].(string); ok {
			redacted[i] = r.RedactString(str)
		}
	}

	return redacted
}

// isSensitiveKey checks if a key name indicates sensitive data.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		switch {
		case lowerKey == sensitive:
			return true
		case strings.HasPrefix(lowerKey, sensitive+"_"), strings.HasSuffix(lowerKey, "_"+sensitive):
			return true
		case len(sensitive) > 4 && strings.Contains(lowerKey, sensitive):
			// short names like "key" and "sig" only match whole words
			return true
		}
	}
	return false
}
