package domain

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RolePGC   Role = "pgc"
	RoleNPGC  Role = "npgc"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePGC, RoleNPGC:
		return true
	}
	return false
}

// Invitable reports whether r may be handed out through an invitation.
func (r Role) Invitable() bool {
	return r == RolePGC || r == RoleNPGC
}

type Status string

const (
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
)

type Contributor struct {
	ID           string // UUIDv4
	Email        string // unique, stored lower-cased
	Name         string
	PasswordHash string // bcrypt encoded
	Role         Role
	Status       Status
	BankAccount  string // hex(iv):hex(ciphertext)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
