package offer

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"timeshare/internal/api"
	"timeshare/internal/profile"
)

func serve(h Handlers, ident api.Identity, method, path, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(api.WithIdentity(r.Context(), ident)))
		})
	})
	r.Post("/listings/{id}/requests", h.Request)
	r.Get("/offers", h.OwnerList)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func identity(role profile.Role) api.Identity {
	return api.Identity{
		UserID:  "11111111-1111-1111-1111-111111111111",
		Profile: &profile.Profile{Role: role, AccountStatus: profile.AccountActive},
	}
}

func TestRequest_RejectsOwnerOnlyAccounts(t *testing.T) {
	rec := serve(Handlers{}, identity(profile.RoleOwner), http.MethodPost,
		"/listings/22222222-2222-2222-2222-222222222222/requests", `{"guestCount":2}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequest_GuestCountMustBePositive(t *testing.T) {
	rec := serve(Handlers{}, identity(profile.RoleBoth), http.MethodPost,
		"/listings/22222222-2222-2222-2222-222222222222/requests", `{"guestCount":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestOwnerList_RejectsUnknownFilter(t *testing.T) {
	rec := serve(Handlers{}, identity(profile.RoleOwner), http.MethodGet, "/offers?bookingStatus=bogus", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
