package carrier

// Credentials is the account identity and secret sent with every outbound
// envelope.
type Credentials struct {
	Identity string
	Secret   string
}

// Complete reports whether both fields are non-empty.
func (c Credentials) Complete() bool {
	return c.Identity != "" && c.Secret != ""
}

// String masks the secret so credentials can be printed safely.
func (c Credentials) String() string {
	if c.Secret == "" {
		return "{" + c.Identity + " <no secret>}"
	}
	return "{" + c.Identity + " [REDACTED]}"
}

// Resolver picks the credentials for one outbound call.
// It holds the process-wide defaults loaded at startup and never mutates them.
type Resolver struct {
	defaults Credentials
}

// NewResolver creates a resolver backed by the given process-wide defaults.
// The defaults may be incomplete, in which case only calls carrying a
// complete override can proceed.
func NewResolver(defaults Credentials) *Resolver {
	return &Resolver{defaults: defaults}
}

// Resolve returns the override when it is complete, otherwise the
// process-wide defaults. ErrMissingCredentials is returned when neither
// source yields a complete pair.
func (r *Resolver) Resolve(override *Credentials) (Credentials, error) {
	if override != nil && override.Complete() {
		return *override, nil
	}
	if !r.defaults.Complete() {
		return Credentials{}, ErrMissingCredentials
	}
	return r.defaults, nil
}

// HasDefaults reports whether process-wide credentials are configured.
func (r *Resolver) HasDefaults() bool {
	return r.defaults.Complete()
}
