package domain

import "time"

// Role represents the kind of account a user holds.
type Role string

const (
	RoleRider  Role = "rider"
	RoleDriver Role = "driver"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleRider, RoleDriver:
		return Role(s), true
	}
	return "", false
}

// User represents an account in the system. The ID is immutable; only profile
// fields may change after creation.
type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      Role
	CreatedAt time.Time
}
