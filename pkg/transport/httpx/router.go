// pkg/transport/httpx/router.go
package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimd "github.com/go-chi/chi/v5/middleware"
)

// Router is the small routing contract the admin surface is built on.
type Router interface {
	Get(path string, h http.Handler)
	Handle(method, path string, h http.Handler)
	Use(mw ...func(http.Handler) http.Handler)
	Mux() http.Handler
}

type chiRouter struct{ r *chi.Mux }

// NewChi returns a chi-backed Router with request ids, panic recovery and
// a /ping heartbeat installed.
func NewChi() Router {
	r := chi.NewRouter()
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))
	return &chiRouter{r: r}
}

func (c *chiRouter) Get(path string, h http.Handler)            { c.r.Method(http.MethodGet, path, h) }
func (c *chiRouter) Handle(method, path string, h http.Handler) { c.r.Method(method, path, h) }
func (c *chiRouter) Use(mw ...func(http.Handler) http.Handler)  { c.r.Use(mw...) }
func (c *chiRouter) Mux() http.Handler                          { return c.r }
