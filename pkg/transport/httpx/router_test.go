package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimd "github.com/go-chi/chi/v5/middleware"
)

func TestNewChi_Heartbeat(t *testing.T) {
	r := NewChi()
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "." {
		t.Fatalf("ping = %d %q", rec.Code, rec.Body.String())
	}
}

func TestNewChi_RecoversAndTagsRequests(t *testing.T) {
	r := NewChi()
	var reqID string
	r.Get("/id", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		reqID = chimd.GetReqID(req.Context())
	}))
	r.Get("/boom", http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/id", nil))
	if reqID == "" {
		t.Fatal("request id not set")
	}

	rec = httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("boom = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/id", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("post = %d", rec.Code)
	}
}
