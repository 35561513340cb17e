package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/onbd/internal/onbd/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict reports a conditional write that matched no row because
	// another writer got there first or the precondition no longer holds.
	ErrConflict = errors.New("store: conflict")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this and expose sub-repositories per record type.
type Store interface {
	Contributors() Contributors
	Invitations() Invitations
	AuditLog() AuditLog

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn inside a transaction, committing when fn returns nil
	// and rolling back otherwise. Prefer it over Tx.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Contributors interface {
	GetContributorByID(ctx context.Context, id string) (domain.Contributor, error)

	// GetContributorByEmail is used by login and duplicate checks.
	GetContributorByEmail(ctx context.Context, email string) (domain.Contributor, error)

	// CreateContributor inserts a contributor. A duplicate email yields
	// ErrAlreadyExists.
	CreateContributor(ctx context.Context, c domain.Contributor) error

	// IsEmpty returns true if there are no contributors.
	IsEmpty(ctx context.Context) (bool, error)
}

type Invitations interface {
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	// GetInvitationByTokenHash returns the invitation regardless of its
	// used/expired state; callers decide redeemability.
	GetInvitationByTokenHash(ctx context.Context, tokenHash string) (domain.Invitation, error)

	// MarkInvitationUsed flips used to true only when the invitation is
	// unused and not expired at now. Zero affected rows yields ErrConflict.
	MarkInvitationUsed(ctx context.Context, tokenHash, usedBy string, now time.Time) error

	// DeleteExpiredInvitations removes invitations that expired before the
	// cutoff and returns how many were removed.
	DeleteExpiredInvitations(ctx context.Context, before time.Time) (int64, error)
}

type AuditLog interface {
	AppendAuditEntry(ctx context.Context, e domain.AuditEntry) error

	// ListAuditEntries returns the newest entries first.
	ListAuditEntries(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}
