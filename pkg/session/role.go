package session

import "fmt"

// Role is the access class of an identity. The set is closed: every table in this package is
// keyed over Roles and tested to cover each member.
type Role string

const (
	RoleUser   Role = "user"
	RoleDriver Role = "driver"
	RoleAdmin  Role = "admin"
)

var Roles = []Role{RoleUser, RoleDriver, RoleAdmin}

func ParseRole(value string) (Role, error) {
	role := Role(value)
	if !role.IsValid() {
		return "", fmt.Errorf("unknown role %q", value)
	}

	return role, nil
}

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleDriver, RoleAdmin:
		return true
	}

	return false
}

func (r Role) String() string {
	return string(r)
}
