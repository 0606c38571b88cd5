package access

import (
	"net/url"
	"strings"

	"timeshare/internal/profile"
)

const LoginPath = "/login"

// Subject is what the gate needs to know about the caller.
type Subject struct {
	Authenticated bool
	Role          profile.Role          // "" when the user has no role yet
	AccountStatus profile.AccountStatus // "" when unknown
}

// Decision is either Allow or a redirect target (path plus query).
type Decision struct {
	Allow    bool
	Redirect string
}

var pass = Decision{Allow: true}

func redirect(to string) Decision { return Decision{Redirect: to} }

var protectedPrefixes = []struct {
	prefix string
	role   profile.Role
}{
	{"/admin", profile.RoleAdmin},
	{"/trips", profile.RoleTraveler},
	{"/dashboard", profile.RoleOwner},
	{"/offers", profile.RoleOwner},
	{"/inventory", profile.RoleOwner},
	{"/listings/new", profile.RoleOwner},
}

// RequiredRole returns the role a path demands, or "" for public paths.
// A prefix matches the exact path or anything below it ("/offers" and "/offers/x", not "/offersx").
func RequiredRole(path string) profile.Role {
	for _, p := range protectedPrefixes {
		if path == p.prefix || strings.HasPrefix(path, p.prefix+"/") {
			return p.role
		}
	}
	return ""
}

// RoleHome is where each role lands after login or after hitting a page it cannot use.
func RoleHome(role profile.Role) string {
	switch role {
	case profile.RoleAdmin:
		return "/admin"
	case profile.RoleOwner:
		return "/dashboard"
	default:
		return "/trips"
	}
}

// HasAccess reports whether role satisfies required. Admin satisfies everything.
func HasAccess(role, required profile.Role) bool {
	if role == profile.RoleAdmin {
		return true
	}
	switch required {
	case profile.RoleOwner:
		return role.ActsAsOwner()
	case profile.RoleTraveler:
		return role.ActsAsTraveler()
	default:
		return false
	}
}

// Decide applies the route rules to one request. It is a pure function of its inputs.
func Decide(path string, s Subject) Decision {
	blocked := s.Authenticated && s.AccountStatus != "" && s.AccountStatus != profile.AccountActive

	if blocked && path != LoginPath {
		q := url.Values{}
		q.Set("blocked", string(s.AccountStatus))
		return redirect(LoginPath + "?" + q.Encode())
	}

	// A blocked user stays on the login page so the blocked notice can be shown.
	if path == LoginPath && s.Role != "" && !blocked {
		return redirect(RoleHome(s.Role))
	}

	required := RequiredRole(path)
	if required == "" {
		return pass
	}

	if !s.Authenticated {
		return redirect(LoginPath + "?next=" + escapeNext(path))
	}

	if s.Role == "" {
		return redirect(LoginPath)
	}

	if !HasAccess(s.Role, required) {
		return redirect(RoleHome(s.Role))
	}
	return pass
}

// escapeNext query-escapes a path but keeps slashes readable (/login?next=/offers/1).
func escapeNext(path string) string {
	return strings.ReplaceAll(url.QueryEscape(path), "%2F", "/")
}
