package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"timeshare/internal/profile"
	"timeshare/pkg/config"
	"timeshare/pkg/supabase"
)

// SessionCookie is the cookie the web app stores the Supabase access token in.
const SessionCookie = "sb-access-token"

type ProfileFinder interface {
	FindByID(ctx context.Context, id string) (*profile.Profile, error)
}

// SessionAuth resolves the acting user for every request and stores it as an Identity.
//
// Token sources, in order:
// - Authorization: Bearer <JWT>
// - sb-access-token cookie
//
// A missing or invalid token leaves the request anonymous; routing decisions are made later
// by the access gate and handlers. A valid token without a profile row is authenticated with
// no role.
func SessionAuth(cfg config.SupabaseConfig, profiles ProfileFinder, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			vs, err := supabase.VerifyAccessToken(token, cfg.JWTSecret, cfg.Audience, time.Now())
			if err != nil {
				logger.Debug("session token rejected", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			id := Identity{UserID: vs.UserID, Email: vs.Email}
			p, err := profiles.FindByID(r.Context(), vs.UserID)
			switch {
			case err == nil:
				id.Profile = p
			case errors.Is(err, profile.ErrNotFound):
			default:
				logger.Error("load profile", "user_id", vs.UserID, "err", err)
				WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load profile")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request) string {
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[7:])
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}
