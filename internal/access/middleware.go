package access

import (
	"net/http"

	"timeshare/internal/api"
)

// Gate enforces Decide on every request. It must run after api.SessionAuth.
func Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := api.IdentityFromContext(r.Context())
		d := Decide(r.URL.Path, Subject{
			Authenticated: id.Authenticated(),
			Role:          id.Role(),
			AccountStatus: id.AccountStatus(),
		})
		if !d.Allow {
			http.Redirect(w, r, d.Redirect, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
