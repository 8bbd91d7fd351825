package domain

import "time"

// Capability names. A user may hold several bindings at once (an admin is
// usually also a client), so authorization is always a set-membership test,
// never a comparison against a single scalar role column.
const (
	RoleAdmin   = "admin"
	RoleClient  = "client"
	RoleTradie  = "tradie"
	RoleSupport = "support"
	RoleFinance = "finance"
)

// RoleBinding associates a marketplace user with one held capability.
type RoleBinding struct {
	UserID    string
	Role      string
	CreatedAt time.Time
}

// KnownRole reports whether name is a capability this deployment recognises.
func KnownRole(name string) bool {
	switch name {
	case RoleAdmin, RoleClient, RoleTradie, RoleSupport, RoleFinance:
		return true
	}
	return false
}
