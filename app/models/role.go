package models

import "strings"

// Role is the single role claim carried on a user profile. The identity
// provider stores it as a free-form string; ParseRole normalises it and
// anything unknown collapses to RoleGuest.
type Role string

const (
	RoleGuest  Role = "guest"
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

// ParseRole maps a raw claim string to a Role, case-insensitively.
func ParseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleBuyer:
		return RoleBuyer
	case RoleSeller:
		return RoleSeller
	case RoleStaff:
		return RoleStaff
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleGuest
	}
}

// Capabilities is the permission set derived from a role.
type Capabilities struct {
	Read   bool `json:"canRead"`
	Create bool `json:"canCreate"`
	Update bool `json:"canUpdate"`
	Delete bool `json:"canDelete"`
}

// Capabilities returns the fixed role→capability matrix. Not configurable
// at runtime.
func (r Role) Capabilities() Capabilities {
	switch r {
	case RoleSeller, RoleStaff:
		return Capabilities{Read: true, Create: true, Update: true}
	case RoleAdmin:
		return Capabilities{Read: true, Create: true, Update: true, Delete: true}
	default: // guest, buyer
		return Capabilities{Read: true}
	}
}
