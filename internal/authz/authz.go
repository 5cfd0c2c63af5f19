// Package authz decides whether a verified identity may perform an
// operation.  It has no I/O: callers load whatever state a decision needs
// (the owner of a log, for example) and pass it in.
package authz

import (
	"errors"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/auth"
)

// ErrForbidden is returned for every negative decision.
var ErrForbidden = errors.New("forbidden")

// Requirement is declared per route and evaluated before the handler runs.
// Roles empty means any authenticated identity is accepted.
type Requirement struct {
	Authenticated bool
	Roles         []auth.Role
}

// Public needs nothing.
var Public = Requirement{}

// Authenticated admits any valid session.
var Authenticated = Requirement{Authenticated: true}

// AdminOnly admits valid sessions carrying the admin role.
var AdminOnly = Requirement{Authenticated: true, Roles: []auth.Role{auth.RoleAdmin}}

// CheckRole returns ErrForbidden unless id.Role is one of roles.  An empty
// role set admits everyone.
func CheckRole(id auth.Identity, roles ...auth.Role) error {
	if len(roles) == 0 {
		return nil
	}
	for _, r := range roles {
		if id.Role == r {
			return nil
		}
	}
	return ErrForbidden
}

// CanModifyLog allows admins and the log's owner.
func CanModifyLog(id auth.Identity, ownerID uint64) error {
	if id.IsAdmin() || (id.ID != 0 && id.ID == ownerID) {
		return nil
	}
	return ErrForbidden
}
