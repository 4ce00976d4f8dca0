package auth

import "context"

func (m *Middleware) GetUser(ctx context.Context) User {
	if user, ok := ctx.Value(userCtxKey).(User); ok {
		return user
	}
	return User{}
}

func (m *Middleware) IsAuthenticated(ctx context.Context) bool {
	u, ok := ctx.Value(userCtxKey).(User)
	return ok && u.Username != ""
}

func (m *Middleware) IsAdmin(ctx context.Context) bool {
	if u, ok := ctx.Value(userCtxKey).(User); ok && m.adminRole != "" {
		return u.Role.Name == m.adminRole
	}
	return false
}

// HasRole is true for the named role, and for the admin role when one is set.
func (m *Middleware) HasRole(ctx context.Context, role string) bool {
	u, ok := ctx.Value(userCtxKey).(User)
	if !ok || u.Username == "" {
		return false
	}
	return u.Role.Name == role || (m.adminRole != "" && u.Role.Name == m.adminRole)
}
