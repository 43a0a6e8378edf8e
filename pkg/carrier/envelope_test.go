package carrier

import "testing"

func TestBuildEnvelope_CredentialsCannotBeShadowed(t *testing.T) {
	resolved := Credentials{Identity: "acct", Secret: "s3cret"}

	tests := []struct {
		name   string
		fields map[string]any
	}{
		{name: "no collision", fields: map[string]any{"siteId": 1}},
		{name: "identity collision", fields: map[string]any{"userName": "attacker"}},
		{name: "secret collision", fields: map[string]any{"password": "guess"}},
		{name: "both collide", fields: map[string]any{"userName": "a", "password": "b", "name": "x"}},
		{name: "non-string values", fields: map[string]any{"userName": 1, "password": nil}},
		{name: "nil fields", fields: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := BuildEnvelope(resolved, "", tt.fields)

			if env[FieldIdentity] != "acct" {
				t.Errorf("identity = %#v, want acct", env[FieldIdentity])
			}
			if env[FieldSecret] != "s3cret" {
				t.Errorf("secret = %#v, want s3cret", env[FieldSecret])
			}

			// Building twice yields the same credentials.
			again := BuildEnvelope(resolved, "", map[string]any(env))
			if again[FieldIdentity] != "acct" || again[FieldSecret] != "s3cret" {
				t.Error("rebuilding changed credentials")
			}
		})
	}
}

func TestBuildEnvelope_Locale(t *testing.T) {
	resolved := Credentials{Identity: "acct", Secret: "s3cret"}

	env := BuildEnvelope(resolved, "", map[string]any{})
	if env[FieldLocale] != DefaultLocale {
		t.Errorf("locale = %#v, want %q", env[FieldLocale], DefaultLocale)
	}

	env = BuildEnvelope(resolved, "EN", map[string]any{"language": "DE"})
	if env[FieldLocale] != "EN" {
		t.Errorf("locale = %#v, want EN", env[FieldLocale])
	}
}

func TestBuildEnvelope_DoesNotMutateInput(t *testing.T) {
	fields := map[string]any{
		"userName": "caller",
		"siteId":   68134,
		"extra":    map[string]any{"nested": true},
	}

	env := BuildEnvelope(Credentials{Identity: "acct", Secret: "s3cret"}, "", fields)

	if fields["userName"] != "caller" {
		t.Error("input identity was overwritten")
	}
	if _, present := fields["password"]; present {
		t.Error("input gained a secret")
	}
	if _, present := fields["language"]; present {
		t.Error("input gained a locale")
	}
	if env["siteId"] != 68134 {
		t.Errorf("siteId = %#v, want 68134", env["siteId"])
	}
	if _, ok := env["extra"].(map[string]any); !ok {
		t.Error("unknown field did not pass through")
	}
}

func TestLocaleOf(t *testing.T) {
	if got := localeOf(map[string]any{"language": "EN"}); got != "EN" {
		t.Errorf("localeOf = %q, want EN", got)
	}
	if got := localeOf(map[string]any{"language": 5}); got != "" {
		t.Errorf("localeOf = %q, want empty", got)
	}
	if got := localeOf(nil); got != "" {
		t.Errorf("localeOf(nil) = %q, want empty", got)
	}
}
