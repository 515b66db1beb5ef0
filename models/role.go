package models

import "fmt"

// Role is the closed set of marketplace account types.
type Role string

const (
	RolePlayer  Role = "player"
	RoleParent  Role = "parent"
	RoleAcademy Role = "academy"
	RoleClinic  Role = "clinic"
	RoleAgent   Role = "agent"
)

// ParseRole validates a raw role value coming from storage or a request.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePlayer, RoleParent, RoleAcademy, RoleClinic, RoleAgent:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// IsCustomer reports whether the role books services (player or parent).
func (r Role) IsCustomer() bool {
	return r == RolePlayer || r == RoleParent
}

// IsProvider reports whether the role offers services (academy or clinic).
func (r Role) IsProvider() bool {
	return r == RoleAcademy || r == RoleClinic
}

func (r Role) String() string {
	return string(r)
}
