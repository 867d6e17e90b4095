// model/role.go
package model

import "strings"

// Role is a named permission level. Value is the stable wire identifier,
// Label is for display only.
type Role struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var (
	UserRole  = Role{Value: "user", Label: "User"}
	AdminRole = Role{Value: "admin", Label: "Administrator"}
)

var roles = []Role{UserRole, AdminRole}

// Roles returns the role catalog in declaration order.
func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// RoleByValue looks a role up by its wire value. Blank input never matches.
func RoleByValue(value string) (Role, bool) {
	if strings.TrimSpace(value) == "" {
		return Role{}, false
	}
	for _, r := range roles {
		if r.Value == value {
			return r, true
		}
	}
	return Role{}, false
}
