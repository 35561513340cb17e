// Package access decides which roles may invoke which operations.
package access

import (
	"slices"

	"github.com/aussiebroadwan/onbd/internal/onbd/domain"
)

// Operation names a protected entry point.
type Operation string

const (
	OpLogin     Operation = "login"
	OpInvite    Operation = "invite"
	OpRegister  Operation = "register"
	OpStatus    Operation = "status"
	OpBootstrap Operation = "bootstrap"
	OpLivez     Operation = "livez"
	OpReadyz    Operation = "readyz"
)

// Policy maps an operation to the roles allowed to call it. An operation
// with no entry, or an empty entry, is unrestricted.
type Policy map[Operation][]domain.Role

// DefaultPolicy restricts invitation issue to admins and leaves everything
// else open.
func DefaultPolicy() Policy {
	return Policy{
		OpLogin:     nil,
		OpInvite:    {domain.RoleAdmin},
		OpRegister:  nil,
		OpStatus:    nil,
		OpBootstrap: nil,
		OpLivez:     nil,
		OpReadyz:    nil,
	}
}

// Required returns the role set for op.
func (p Policy) Required(op Operation) []domain.Role {
	return p[op]
}

// Allows reports whether a caller may invoke op.
func (p Policy) Allows(op Operation, caller domain.Role, authenticated bool) bool {
	return Authorize(p.Required(op), caller, authenticated)
}

// Authorize is the pure access decision: an empty requirement admits
// everyone, otherwise the caller must be authenticated and hold one of the
// required roles.
func Authorize(required []domain.Role, caller domain.Role, authenticated bool) bool {
	if len(required) == 0 {
		return true
	}
	if !authenticated {
		return false
	}
	return slices.Contains(required, caller)
}
