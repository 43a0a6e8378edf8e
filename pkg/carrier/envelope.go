package carrier

// Envelope field names understood by the carrier API.
const (
	FieldIdentity = "userName"
	FieldSecret   = "password"
	FieldLocale   = "language"
)

// DefaultLocale is the envelope language used when neither the caller nor
// the client configuration supplies one.
const DefaultLocale = "BG"

// Envelope is the exact JSON object posted to the carrier.
type Envelope map[string]any

// BuildEnvelope merges the resolved credentials, a locale and the caller's
// business fields into a new envelope. The caller's map is not modified.
//
// Credential keys present in fields are always replaced by the resolved
// values. An empty locale selects DefaultLocale.
func BuildEnvelope(resolved Credentials, locale string, fields map[string]any) Envelope {
	env := make(Envelope, len(fields)+3)
	for k, v := range fields {
		env[k] = v
	}

	delete(env, FieldIdentity)
	delete(env, FieldSecret)
	env[FieldIdentity] = resolved.Identity
	env[FieldSecret] = resolved.Secret

	if locale == "" {
		locale = DefaultLocale
	}
	env[FieldLocale] = locale

	return env
}

// localeOf returns the caller-supplied language, or "" when absent or not a string.
func localeOf(fields map[string]any) string {
	if s, ok := fields[FieldLocale].(string); ok {
		return s
	}
	return ""
}
