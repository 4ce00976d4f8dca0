package admin

import (
	"net/http"

	"github.com/joeydtaylor/cetty/pkg/middleware/auth"
)

// Guard restricts an admin endpoint.
type Guard struct {
	RequireAuth bool
	Roles       []string
}

func withGuard(next http.HandlerFunc, a *auth.Middleware, g Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a == nil {
			if g.RequireAuth || len(g.Roles) > 0 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next(w, r)
			return
		}

		if (g.RequireAuth || len(g.Roles) > 0) && !a.IsAuthenticated(r.Context()) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if len(g.Roles) > 0 {
			for _, role := range g.Roles {
				if a.HasRole(r.Context(), role) {
					next(w, r)
					return
				}
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}
