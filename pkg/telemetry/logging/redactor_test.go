package logging

import (
	"strings"
	"testing"

	"mercator-hq/courier/pkg/config"
)

func TestNewRedactor_CustomPatterns(t *testing.T) {
	redactor := NewRedactor([]config.RedactPattern{
		{Name: "waybill", Pattern: `WB-\d{9}`, Replacement: "WB-*********"},
		{Name: "invalid", Pattern: "[unclosed", Replacement: "***"},
	})

	names := strings.Join(redactor.PatternNames(), ",")
	if !strings.Contains(names, "waybill") {
		t.Errorf("custom pattern missing: %s", names)
	}
	if strings.Contains(names, "invalid") {
		t.Errorf("invalid pattern should be skipped: %s", names)
	}
	if got := redactor.RedactString("label WB-123456789"); got != "label WB-*********" {
		t.Errorf("RedactString() = %q", got)
	}
}

func TestRedactor_RedactString(t *testing.T) {
	redactor := NewRedactor(nil)

	tests := []struct {
		name    string
		input   string
		leaked  string
		wantRaw bool
	}{
		{name: "email", input: "recipient ivan.petrov@example.bg", leaked: "ivan.petrov@example.bg"},
		{name: "international phone", input: "call +359 888 123 456", leaked: "888 123 456"},
		{name: "national mobile", input: "phone 0888123456", leaked: "0888123456"},
		{name: "bearer token", input: "Authorization: Bearer abc.def.ghi", leaked: "abc.def.ghi"},
		{name: "json password", input: `{"userName":"a","password":"hunter2"}`, leaked: "hunter2"},
		{name: "form password", input: "password=hunter2&lang=BG", leaked: "hunter2"},
		{name: "url credentials", input: "https://acct:pw@carrier.test/v1", leaked: "acct:pw"},
		{name: "site id untouched", input: "siteId 68134", wantRaw: true},
		{name: "empty", input: "", wantRaw: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := redactor.RedactString(tt.input)
			if tt.wantRaw {
				if got != tt.input {
					t.Errorf("expected no change, got %q", got)
				}
				return
			}
			if strings.Contains(got, tt.leaked) {
				t.Errorf("RedactString(%q) = %q still contains %q", tt.input, got, tt.leaked)
			}
		})
	}
}

func TestIsSensitiveKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"password", true},
		{"userName", true},
		{"X-Carrier-Username", true},
		{"client_secret", true},
		{"Authorization", true},
		{"siteId", false},
		{"user_agent", false},
		{"path", false},
	}

	for _, tt := range tests {
		if got := IsSensitiveKey(tt.key); got != tt.want {
			t.Errorf("IsSensitiveKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestRedactor_RedactMapDoesNotMutate(t *testing.T) {
	redactor := NewRedactor(nil)
	in := map[string]any{
		"password": "x",
		"nested":   map[string]any{"token": "y", "name": "Office A"},
	}

	out := redactor.RedactMap(in)

	if in["password"] != "x" {
		t.Error("input mutated")
	}
	if out["password"] != Redacted {
		t.Errorf("password = %v", out["password"])
	}
	nested := out["nested"].(map[string]any)
	if nested["token"] != Redacted || nested["name"] != "Office A" {
		t.Errorf("nested = %v", nested)
	}
}
