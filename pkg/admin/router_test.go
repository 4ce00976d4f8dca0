package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joeydtaylor/cetty/pkg/core"
	"github.com/joeydtaylor/cetty/pkg/middleware/auth"
	"github.com/joeydtaylor/cetty/pkg/middleware/logger"
	hmetrics "github.com/joeydtaylor/cetty/pkg/middleware/metrics"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.SetAccessLogger(zap.NewNop())
	m.Run()
}

func sealedRegistry(t *testing.T) *core.Registry {
	t.Helper()
	reg := core.NewRegistry()
	ctrl := core.ControllerFunc(func() []core.Route {
		return []core.Route{
			{Method: "Hello", Paths: []string{"/test"}, Handle: func(*core.Request) (any, error) { return "1234", nil }},
			{Method: "Zx", Paths: []string{"/zx"}, Handle: func(*core.Request) (any, error) { return "zhuxiong", nil }},
		}
	})
	if err := core.NewScanner(reg, nil).Scan(core.NewNamespace("app").Controller("Test", core.Of(ctrl))); err != nil {
		t.Fatal(err)
	}
	reg.Seal()
	return reg
}

func get(h http.Handler, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBuildRouter_OpenRoutes(t *testing.T) {
	h := BuildRouter(sealedRegistry(t), Deps{
		LogMW:   &logger.Middleware{},
		Metrics: hmetrics.NewPromHttpHandler(),
	})

	if rec := get(h, "/ping", nil); rec.Code != http.StatusOK {
		t.Fatalf("ping = %d", rec.Code)
	}
	if rec := get(h, "/metrics", nil); rec.Code != http.StatusOK {
		t.Fatalf("metrics = %d", rec.Code)
	}

	rec := get(h, "/routes", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("routes = %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	var table routeTable
	if err := json.Unmarshal(rec.Body.Bytes(), &table); err != nil {
		t.Fatal(err)
	}
	if !table.Sealed || table.Count != 2 || table.Routes[0].Key != "/test" || table.Routes[1].Method != "Zx" {
		t.Fatalf("table = %+v", table)
	}
}

func TestBuildRouter_NoMetricsHandler(t *testing.T) {
	h := BuildRouter(sealedRegistry(t), Deps{})
	if rec := get(h, "/metrics", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("metrics = %d", rec.Code)
	}
}

func TestBuildRouter_RoutesRequireToken(t *testing.T) {
	const secret = "admin-secret"
	a := auth.New(auth.Options{Secret: secret, Leeway: time.Second})
	h := BuildRouter(sealedRegistry(t), Deps{Auth: a})

	if rec := get(h, "/routes", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous = %d", rec.Code)
	}
	if rec := get(h, "/ping", nil); rec.Code != http.StatusOK {
		t.Fatalf("ping should stay open, got %d", rec.Code)
	}

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ops",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	if rec := get(h, "/routes", map[string]string{"Authorization": "Bearer " + tok}); rec.Code != http.StatusOK {
		t.Fatalf("authorized = %d %s", rec.Code, rec.Body.String())
	}
	if rec := get(h, "/routes", map[string]string{"Authorization": "Bearer junk"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("junk token = %d", rec.Code)
	}
}

func TestBuildRouter_AdminRole(t *testing.T) {
	a := auth.New(auth.Options{DevBypass: true, AdminRole: "admin"})
	h := BuildRouter(sealedRegistry(t), Deps{Auth: a})

	cases := []struct {
		hdr  map[string]string
		want int
	}{
		{nil, http.StatusUnauthorized},
		{map[string]string{"X-Dev-User": "bob", "X-Dev-Role": "reader"}, http.StatusForbidden},
		{map[string]string{"X-Dev-User": "alice", "X-Dev-Role": "admin"}, http.StatusOK},
	}
	for _, tc := range cases {
		if rec := get(h, "/routes", tc.hdr); rec.Code != tc.want {
			t.Errorf("%v: got %d, want %d", tc.hdr, rec.Code, tc.want)
		}
	}
}

func TestWithGuard_NoAuthMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	if rec := get(withGuard(ok, nil, Guard{}), "/", nil); rec.Code != http.StatusOK {
		t.Fatalf("open guard = %d", rec.Code)
	}
	if rec := get(withGuard(ok, nil, Guard{RequireAuth: true}), "/", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("closed guard = %d", rec.Code)
	}
}
