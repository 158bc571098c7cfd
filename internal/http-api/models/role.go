package models

// Role is the platform-wide authorization level of a user.
// Roles form a total order: viewer < creator < admin. Every gated
// endpoint compares through MeetsMinimum instead of keeping its own
// whitelist, so the ordering lives in exactly one place.
type Role string

const (
	RoleViewer  Role = "viewer"
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
)

// level maps a role to its rank in the order. Unknown roles rank below
// viewer so a corrupted or forged role value never passes a gate.
func (r Role) level() int {
	switch r {
	case RoleViewer:
		return 1
	case RoleCreator:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r.level() > 0
}

// MeetsMinimum reports whether r meets or exceeds the required role.
func (r Role) MeetsMinimum(required Role) bool {
	if !r.Valid() || !required.Valid() {
		return false
	}
	return r.level() >= required.level()
}
