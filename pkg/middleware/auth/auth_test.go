package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "s3cret"

func sign(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

// echoUser reports what the middleware attached to the context.
func echoUser(m *Middleware) http.Handler {
	return m.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.IsAuthenticated(r.Context()) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		u := m.GetUser(r.Context())
		_, _ = w.Write([]byte(u.Username + "|" + u.Role.Name))
	}))
}

func TestMiddleware_ValidToken(t *testing.T) {
	m := New(Options{Secret: testSecret, Issuer: "cetty", Leeway: time.Second})
	tok := sign(t, adminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ops",
			Issuer:    "cetty",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		Roles: []string{"reader"},
	})

	req := httptest.NewRequest("GET", "/routes", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	echoUser(m).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "ops|reader" {
		t.Fatalf("code=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestMiddleware_RejectsBadTokens(t *testing.T) {
	m := New(Options{Secret: testSecret, Issuer: "cetty"})
	cases := map[string]string{
		"garbage": "not-a-jwt",
		"expired": sign(t, jwt.RegisteredClaims{
			Subject:   "ops",
			Issuer:    "cetty",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}),
		"wrong issuer": sign(t, jwt.RegisteredClaims{Subject: "ops", Issuer: "other"}),
		"no subject":   sign(t, jwt.RegisteredClaims{Issuer: "cetty"}),
	}
	for name, tok := range cases {
		req := httptest.NewRequest("GET", "/routes", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		echoUser(m).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: code=%d", name, rec.Code)
		}
	}
}

func TestMiddleware_NoTokenPassesThrough(t *testing.T) {
	m := New(Options{Secret: testSecret})
	rec := httptest.NewRecorder()
	echoUser(m).ServeHTTP(rec, httptest.NewRequest("GET", "/routes", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("code=%d", rec.Code)
	}
}

func TestMiddleware_DevBypass(t *testing.T) {
	m := New(Options{DevBypass: true, AdminRole: "admin"})
	req := httptest.NewRequest("GET", "/routes", nil)
	req.Header.Set("X-Dev-User", "dev")
	req.Header.Set("X-Dev-Role", "admin")
	rec := httptest.NewRecorder()

	var isAdmin bool
	m.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		isAdmin = m.IsAdmin(r.Context()) && m.HasRole(r.Context(), "anything")
	})).ServeHTTP(rec, req)

	if !isAdmin {
		t.Fatal("dev admin user not recognized")
	}
}
