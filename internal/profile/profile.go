package profile

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleTraveler Role = "traveler"
	RoleOwner    Role = "owner"
	RoleBoth     Role = "both"
	RoleAdmin    Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleTraveler, RoleOwner, RoleBoth, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %s", s)
	}
}

// ActsAsTraveler reports whether the role may book stays.
func (r Role) ActsAsTraveler() bool {
	return r == RoleTraveler || r == RoleBoth
}

// ActsAsOwner reports whether the role may list weeks.
func (r Role) ActsAsOwner() bool {
	return r == RoleOwner || r == RoleBoth
}

type AccountStatus string

const (
	AccountActive AccountStatus = "active"
	AccountOnHold AccountStatus = "on_hold"
	AccountBanned AccountStatus = "banned"
)

func ParseAccountStatus(s string) (AccountStatus, error) {
	switch AccountStatus(s) {
	case AccountActive, AccountOnHold, AccountBanned:
		return AccountStatus(s), nil
	default:
		return "", fmt.Errorf("unknown account status: %s", s)
	}
}

type Profile struct {
	ID              string        `json:"id"`
	FullName        string        `json:"fullName,omitempty"`
	Role            Role          `json:"role,omitempty"`
	AccountStatus   AccountStatus `json:"accountStatus"`
	StatusReason    string        `json:"statusReason,omitempty"`
	StatusUpdatedAt *time.Time    `json:"statusUpdatedAt,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
}
