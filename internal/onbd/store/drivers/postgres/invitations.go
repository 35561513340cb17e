package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/onbd/internal/onbd/domain"
	"github.com/aussiebroadwan/onbd/internal/onbd/store"
)

type invitationsRepo struct {
	q *queries
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.q.db.ExecContext(ctx, createInvitation,
		inv.ID,
		inv.TokenHash,
		inv.Email,
		string(inv.Role),
		inv.Metadata.Department,
		mapStringNull(inv.CreatedBy),
		inv.ExpiresAt.UTC(),
		inv.CreatedAt.UTC(),
	)
	return mapUniqueViolation(err)
}

func (r *invitationsRepo) GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	var (
		inv               domain.Invitation
		role              string
		createdBy, usedBy sql.NullString
		usedAt            sql.NullTime
	)
	err := r.q.db.QueryRowContext(ctx, getInvitationByTokenHash, hash).Scan(
		&inv.ID,
		&inv.TokenHash,
		&inv.Email,
		&role,
		&inv.Metadata.Department,
		&createdBy,
		&inv.ExpiresAt,
		&inv.Used,
		&usedBy,
		&usedAt,
		&inv.CreatedAt,
	)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}

	inv.Role = domain.Role(role)
	inv.CreatedBy = mapNullString(createdBy)
	inv.UsedBy = mapNullString(usedBy)
	inv.UsedAt = mapNullTimePtr(usedAt)
	inv.ExpiresAt = inv.ExpiresAt.UTC()
	inv.CreatedAt = inv.CreatedAt.UTC()
	return inv, nil
}

// MarkInvitationUsed relies on the row lock taken by UPDATE: a concurrent
// redeemer blocks, then re-evaluates the predicate and matches nothing.
func (r *invitationsRepo) MarkInvitationUsed(ctx context.Context, hash, usedBy string, now time.Time) error {
	res, err := r.q.db.ExecContext(ctx, markInvitationUsed, mapStringNull(usedBy), now.UTC(), hash)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrConflict
	}
	return nil
}

func (r *invitationsRepo) DeleteExpiredInvitations(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.q.db.ExecContext(ctx, deleteExpiredInvitations, before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
