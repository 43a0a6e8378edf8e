package logging

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"mercator-hq/courier/pkg/config"
)

// Redacted replaces the value of a sensitive attribute.
const Redacted = "[REDACTED]"

// Redactor masks credentials and personal data in log attributes.
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
	PatternEmail       = "email"
	PatternPhone       = "phone"
	PatternPassword    = "password"
	PatternBearerToken = "bearer_token"
	PatternURLUserInfo = "url_userinfo"
)

// sensitiveKeys are matched case-insensitively as substrings of attribute
// keys. Values under these keys are replaced entirely.
var sensitiveKeys = []string{
	"password", "passwd", "pwd",
	"username", "user_name",
	"secret", "token", "api_key", "apikey",
	"authorization", "cookie",
	"private_key", "privatekey",
}

var defaultPatterns = []struct {
	name        string
	regex       string
	replacement string
}{
	{PatternURLUserInfo, `(//)[^/\s:@]+:[^/\s@]+@`, "$1***:***@"},
	{PatternEmail, `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`, "***@***"},
	// Bulgarian numbers in international and national mobile form
	{PatternPhone, `(?:\+359|00359)[\s-]?\d{2,3}[\s-]?\d{3}[\s-]?\d{3,4}|\b0[89]\d{8}\b`, "***PHONE***"},
	{PatternBearerToken, `(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`, "Bearer ***"},
	{PatternPassword, `(?i)("?(?:password|passwd|pwd)"?\s*[:=]\s*)("[^"]*"|[^\s,}&]+)`, `$1"***"`},
}

// NewRedactor creates a new Redactor with default and custom patterns.
// Custom patterns that fail to compile are skipped.
func NewRedactor(customPatterns []config.RedactPattern) *Redactor {
	r := &Redactor{}

	for _, p := range defaultPatterns {
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		})
	}

	for _, p := range customPatterns {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: p.Replacement,
		})
	}

	return r
}

// PatternNames returns the names of the active patterns, sorted.
func (r *Redactor) PatternNames() []string {
	names := make([]string, 0, len(r.patterns))
	for _, p := range r.patterns {
		names = append(names, p.name)
	}
	sort.Strings(names)
	return names
}

// RedactString applies every pattern to value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}

	for _, pattern := range r.patterns {
		value = pattern.regex.ReplaceAllString(value, pattern.replacement)
	}
	return value
}

// RedactAttr redacts one slog attribute, descending into groups and
// map values.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	if IsSensitiveKey(a.Key) {
		return slog.String(a.Key, Redacted)
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, r.RedactString(v.String()))
	case slog.KindGroup:
		group := v.Group()
		redacted := make([]any, len(group))
		for i, ga := range group {
			redacted[i] = r.RedactAttr(ga)
		}
		return slog.Group(a.Key, redacted...)
	case slog.KindAny:
		switch m := v.Any().(type) {
		case map[string]any:
			return slog.Any(a.Key, r.RedactMap(m))
		case error:
			return slog.String(a.Key, r.RedactString(m.Error()))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}

// RedactMap returns a copy of m with sensitive keys masked and string
// values passed through RedactString.
func (r *Redactor) RedactMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if IsSensitiveKey(k) {
			out[k] = Redacted
			continue
		}
		switch t := v.(type) {
		case string:
			out[k] = r.RedactString(t)
		case map[string]any:
			out[k] = r.RedactMap(t)
		default:
			out[k] = v
		}
	}
	return out
}

// IsSensitiveKey reports whether a key name indicates a credential.
func IsSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}
