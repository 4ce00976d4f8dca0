package admin

import (
	"net/http"

	"github.com/joeydtaylor/cetty/pkg/core"
	"github.com/joeydtaylor/cetty/pkg/middleware/auth"
	"github.com/joeydtaylor/cetty/pkg/middleware/logger"
	hmetrics "github.com/joeydtaylor/cetty/pkg/middleware/metrics"
	"github.com/joeydtaylor/cetty/pkg/transport/httpx"
)

// Deps are the collaborators the admin surface is assembled from.
type Deps struct {
	Auth    *auth.Middleware   // nil leaves /routes open
	LogMW   *logger.Middleware // nil disables admin access logs
	Metrics http.Handler       // nil omits /metrics
	Router  httpx.Router       // nil means httpx.NewChi()
}

// BuildRouter serves /ping, /metrics and the /routes table for reg.
func BuildRouter(reg *core.Registry, d Deps) http.Handler {
	r := d.Router
	if r == nil {
		r = httpx.NewChi()
	}

	if d.Auth != nil {
		r.Use(d.Auth.Middleware())
		if d.LogMW != nil {
			r.Use(d.LogMW.Middleware(d.Auth))
		}
		r.Use(hmetrics.Collect(d.Auth))
	} else {
		if d.LogMW != nil {
			r.Use(d.LogMW.Middleware(nil))
		}
		r.Use(hmetrics.Collect(nil))
	}

	if d.Metrics != nil {
		r.Get("/metrics", d.Metrics)
	}
	r.Get("/routes", withGuard(routesHandler(reg), d.Auth, routesGuard(d.Auth)))
	return r.Mux()
}

// routesGuard requires a caller once any authentication source is configured.
func routesGuard(a *auth.Middleware) Guard {
	if a == nil || (!a.Enabled() && !a.DevBypass()) {
		return Guard{}
	}
	g := Guard{RequireAuth: true}
	if role := a.AdminRole(); role != "" {
		g.Roles = []string{role}
	}
	return g
}
