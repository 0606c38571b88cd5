package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"timeshare/internal/profile"
	"timeshare/pkg/config"
	"timeshare/pkg/supabase"
)

type stubProfiles map[string]*profile.Profile

func (s stubProfiles) FindByID(_ context.Context, id string) (*profile.Profile, error) {
	if p, ok := s[id]; ok {
		return p, nil
	}
	return nil, profile.ErrNotFound
}

func signedToken(t *testing.T, subject, secret string) string {
	t.Helper()
	claims := supabase.AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Audience:  []string{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func runSession(t *testing.T, req *http.Request, profiles stubProfiles) Identity {
	t.Helper()
	cfg := config.SupabaseConfig{JWTSecret: "secret", Audience: "authenticated"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var got Identity
	h := SessionAuth(cfg, profiles, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestSessionAuth_BearerResolvesProfile(t *testing.T) {
	profiles := stubProfiles{"u1": {ID: "u1", Role: profile.RoleOwner, AccountStatus: profile.AccountActive}}
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "u1", "secret"))

	got := runSession(t, req, profiles)
	if !got.Authenticated() || got.Role() != profile.RoleOwner {
		t.Fatalf("unexpected identity: %+v", got)
	}
}

func TestSessionAuth_CookieWithoutProfile(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: signedToken(t, "u2", "secret")})

	got := runSession(t, req, stubProfiles{})
	if !got.Authenticated() || got.Role() != "" {
		t.Fatalf("expected authenticated identity without role, got %+v", got)
	}
}

func TestSessionAuth_InvalidTokenIsAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "u1", "wrong"))

	if got := runSession(t, req, stubProfiles{}); got.Authenticated() {
		t.Fatalf("expected anonymous identity, got %+v", got)
	}
}
