package metrics

import (
	"net/http"
	"strconv"

	chimw "github.com/go-chi/chi/middleware"
	"github.com/joeydtaylor/cetty/pkg/middleware/auth"
)

// Collect counts admin-surface requests. The dispatch listener records its
// own metrics through ObserveRequest.
func Collect(ca *auth.Middleware) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				// Skip self-scrape and any additional caller-configured paths
				if isSkipPath(r) {
					return
				}
				role := ""
				if ca != nil {
					role = ca.GetUser(r.Context()).Role.Name
				}
				code := strconv.Itoa(ww.Status())
				totalAdminRequests.WithLabelValues(code, normalizePath(r), r.Method, role).Inc()
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
