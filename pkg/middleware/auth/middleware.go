package auth

import "time"

type contextKey struct{ name string }

var userCtxKey = &contextKey{"user"}

// Middleware authenticates admin-surface requests with HS256 bearer tokens.
type Middleware struct {
	secret    []byte
	issuer    string
	audience  string
	leeway    time.Duration
	adminRole string
	devBypass bool
}

// Enabled reports whether a signing secret is configured.
func (m *Middleware) Enabled() bool { return m != nil && len(m.secret) > 0 }

type Role struct {
	Name string `json:"name"`
}

type AuthenticationSource struct {
	Provider string `json:"provider"`
}

// User is the identity attached to an admin request context.
type User struct {
	Username             string               `json:"username"`
	AuthenticationSource AuthenticationSource `json:"authenticationSource"`
	Role                 Role                 `json:"role"`
}

// DevBypass reports whether X-Dev-User headers are trusted.
func (m *Middleware) DevBypass() bool { return m != nil && m.devBypass }

func (m *Middleware) AdminRole() string {
	if m == nil {
		return ""
	}
	return m.adminRole
}
