package api

import (
	"context"

	"timeshare/internal/profile"
)

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

// Identity is the acting user resolved for a single request.
// A zero Identity is an anonymous visitor.
type Identity struct {
	UserID  string
	Email   string
	Profile *profile.Profile
}

func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

// Role returns the profile role, or "" when the user has no profile or no role yet.
func (i Identity) Role() profile.Role {
	if i.Profile == nil {
		return ""
	}
	return i.Profile.Role
}

// AccountStatus returns the moderation status, or "" when unknown.
func (i Identity) AccountStatus() profile.AccountStatus {
	if i.Profile == nil {
		return ""
	}
	return i.Profile.AccountStatus
}

func (i Identity) IsAdmin() bool {
	return i.Role() == profile.RoleAdmin
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

func IdentityFromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(ctxKeyIdentity).(Identity)
	return id
}
