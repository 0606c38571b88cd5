package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"timeshare/pkg/config"
)

func testRouter() http.Handler {
	return NewRouter(Dependencies{Cfg: config.Config{
		AppEnv:         "test",
		AllowedOrigins: []string{"http://localhost:3000"},
		Supabase:       config.SupabaseConfig{JWTSecret: "secret", Audience: "authenticated"},
	}})
}

func TestRouter_Healthz(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestRouter_GateRedirectsAnonymous(t *testing.T) {
	cases := []struct {
		method, path, want string
	}{
		{http.MethodGet, "/dashboard", "/login?next=/dashboard"},
		{http.MethodPost, "/offers/abc/accept", "/login?next=/offers/abc/accept"},
		{http.MethodGet, "/admin/users", "/login?next=/admin/users"},
		{http.MethodGet, "/trips", "/login?next=/trips"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		testRouter().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != http.StatusFound {
			t.Fatalf("%s %s: expected 302, got %d", tc.method, tc.path, rec.Code)
		}
		if got := rec.Header().Get("Location"); got != tc.want {
			t.Fatalf("%s %s: expected redirect to %q, got %q", tc.method, tc.path, tc.want, got)
		}
	}
}

func TestRouter_LoginAnonymous(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login?next=/trips", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"authenticated":false`) || !strings.Contains(body, `"next":"/trips"`) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestRouter_FeedbackFailsClosedWithoutMailConfig(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(`{"kind":"bug","details":"search is broken"}`))
	req.Header.Set("Content-Type", "application/json")
	testRouter().ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/hotel-pricing", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	testRouter().ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allowed origin echoed, got %q", got)
	}
}
