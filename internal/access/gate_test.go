package access

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"timeshare/internal/api"
	"timeshare/internal/profile"
)

func active(role profile.Role) Subject {
	return Subject{Authenticated: true, Role: role, AccountStatus: profile.AccountActive}
}

func TestDecide(t *testing.T) {
	cases := []struct {
		name    string
		path    string
		subject Subject
		want    Decision
	}{
		{"traveler on dashboard goes home", "/dashboard", active(profile.RoleTraveler), Decision{Redirect: "/trips"}},
		{"both on dashboard passes", "/dashboard", active(profile.RoleBoth), Decision{Allow: true}},
		{"anonymous on dashboard goes to login", "/dashboard", Subject{}, Decision{Redirect: "/login?next=/dashboard"}},
		{"anonymous on nested owner path", "/offers/123", Subject{}, Decision{Redirect: "/login?next=/offers/123"}},
		{"owner on trips goes to dashboard", "/trips", active(profile.RoleOwner), Decision{Redirect: "/dashboard"}},
		{"both on trips passes", "/trips", active(profile.RoleBoth), Decision{Allow: true}},
		{"admin passes everywhere", "/inventory", active(profile.RoleAdmin), Decision{Allow: true}},
		{"admin passes trips", "/trips", active(profile.RoleAdmin), Decision{Allow: true}},
		{"owner on admin goes home", "/admin/users", active(profile.RoleOwner), Decision{Redirect: "/dashboard"}},
		{"public path passes anonymous", "/search", Subject{}, Decision{Allow: true}},
		{"listing detail is public", "/listings/abc", Subject{}, Decision{Allow: true}},
		{"listings/new is owner only", "/listings/new", active(profile.RoleTraveler), Decision{Redirect: "/trips"}},
		{"prefix needs a segment boundary", "/offersx", Subject{}, Decision{Allow: true}},
		{"login with role goes home", "/login", active(profile.RoleOwner), Decision{Redirect: "/dashboard"}},
		{"login with both goes to trips", "/login", active(profile.RoleBoth), Decision{Allow: false, Redirect: "/trips"}},
		{"login with admin goes to admin", "/login", active(profile.RoleAdmin), Decision{Redirect: "/admin"}},
		{"login anonymous passes", "/login", Subject{}, Decision{Allow: true}},
		{"authenticated without role on protected path", "/trips", Subject{Authenticated: true}, Decision{Redirect: "/login"}},
		{"authenticated without role on public path", "/search", Subject{Authenticated: true}, Decision{Allow: true}},
	}
	for _, c := range cases {
		got := Decide(c.path, c.subject)
		if got != c.want {
			t.Fatalf("%s: expected %+v, got %+v", c.name, c.want, got)
		}
	}
}

func TestDecide_BlockedAccounts(t *testing.T) {
	for _, status := range []profile.AccountStatus{profile.AccountOnHold, profile.AccountBanned} {
		s := Subject{Authenticated: true, Role: profile.RoleOwner, AccountStatus: status}
		for _, path := range []string{"/", "/search", "/dashboard", "/admin", "/listings/abc"} {
			want := Decision{Redirect: "/login?blocked=" + string(status)}
			if got := Decide(path, s); got != want {
				t.Fatalf("%s on %s: expected %+v, got %+v", status, path, want, got)
			}
		}
		if got := Decide("/login", s); !got.Allow {
			t.Fatalf("%s on /login: expected pass, got %+v", status, got)
		}
	}
}

func TestGate_Redirects(t *testing.T) {
	h := Gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login?next=/dashboard" {
		t.Fatalf("expected redirect to login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	id := api.Identity{UserID: "u1", Profile: &profile.Profile{Role: profile.RoleBoth, AccountStatus: profile.AccountActive}}
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req = req.WithContext(api.WithIdentity(req.Context(), id))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
}
