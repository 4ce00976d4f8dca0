package logger

import (
	"net/http"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/cetty/pkg/middleware/auth"
	"go.uber.org/zap"
)

type Middleware struct{}

// ConnAccess describes one finished dispatch connection.
type ConnAccess struct {
	ConnID      string
	RemoteAddr  string
	Proto       string
	Method      string
	Target      string
	ContentType string
	Body        []byte
	Route       string
	Status      int
	Bytes       int
	State       string
	Start       time.Time
	Err         error
}

// Conn writes one access record for a dispatch connection.
func (m *Middleware) Conn(a ConnAccess) {
	log := accessLogger().With(
		zap.String("dateTime", a.Start.UTC().Format(time.RFC1123)),
		zap.String("connId", a.ConnID),
		zap.String("remoteAddr", a.RemoteAddr),
		zap.String("httpProto", a.Proto),
		zap.String("httpMethod", a.Method),
		zap.String("uri", a.Target),
		zap.String("route", a.Route),
		zap.String("state", a.State),
		zap.Duration("lat", time.Since(a.Start)),
		zap.Int("responseSize", a.Bytes),
		zap.Int("status", a.Status),
	)
	if a.Err != nil {
		log = log.With(zap.Error(a.Err))
	}

	// Redact by default; allowlist small JSON bodies only.
	if shouldLogBody(a.Method, a.Target, a.ContentType, a.Body) {
		log.Info("access", zap.ByteString("requestData", a.Body))
		return
	}
	log.Info("access")
}

// Middleware access-logs admin requests.
func (m *Middleware) Middleware(ca *auth.Middleware) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimd.NewWrapResponseWriter(w, r.ProtoMajor)

			start := time.Now()
			defer func() {
				// nil-safe auth lookups
				isAuth := false
				username := ""
				role := ""
				if ca != nil {
					isAuth = ca.IsAuthenticated(r.Context())
					u := ca.GetUser(r.Context())
					username = u.Username
					role = u.Role.Name
				}

				accessLogger().Info("admin access",
					zap.String("dateTime", start.UTC().Format(time.RFC1123)),
					zap.String("requestId", chimd.GetReqID(r.Context())),
					zap.Bool("isAuthenticated", isAuth),
					zap.String("username", username),
					zap.String("role", role),
					zap.String("httpProto", r.Proto),
					zap.String("httpMethod", r.Method),
					zap.String("remoteAddr", r.RemoteAddr),
					zap.String("uri", r.URL.Path),
					zap.Duration("lat", time.Since(start)),
					zap.Int("responseSize", ww.BytesWritten()),
					zap.Int("status", ww.Status()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
