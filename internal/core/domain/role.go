package domain

import "fmt"

// Role is the closed set of user roles the platform knows about.
// The numeric codes are part of the wire contract and must not change.
type Role int

const (
	RoleAdmin   Role = 1 // platform administrator
	RoleManager Role = 2 // merchant / shop owner
	RoleUser    Role = 3 // regular shopper

	// RoleNone marks the absence of a role requirement or of a session.
	RoleNone Role = 0
)

// Valid reports whether r is one of the three platform roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleUser
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleManager:
		return "manager"
	case RoleUser:
		return "user"
	case RoleNone:
		return "none"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}
