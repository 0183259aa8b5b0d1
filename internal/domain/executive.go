package domain

import "time"

// ExecutiveRole scopes what an executive may do.
type ExecutiveRole string

const (
	RoleAdmin   ExecutiveRole = "ADMIN"
	RoleSupport ExecutiveRole = "SUPPORT"
)

// Valid reports whether the role is a known role.
func (r ExecutiveRole) Valid() bool {
	return r == RoleAdmin || r == RoleSupport
}

// SupportExecutive is the authenticated operator of the triage API.
type SupportExecutive struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         ExecutiveRole
	CreatedAt    time.Time
}
