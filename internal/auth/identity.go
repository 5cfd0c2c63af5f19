// Package auth holds the identity attached to an authenticated request.
package auth

import "strings"

// Role is the coarse permission class stored on a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole accepts exactly "user" or "admin" (surrounding space ignored).
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.TrimSpace(s)); r {
	case RoleUser, RoleAdmin:
		return r, true
	}
	return "", false
}

// Identity is the verified subject of a session token.  It is rebuilt from
// the token on every request and is the only source of a caller's user id.
type Identity struct {
	ID       uint64
	Username string
	Role     Role
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
