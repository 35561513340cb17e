package sqlite

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
		toMillis(inv.ExpiresAt),
		toMillis(inv.CreatedAt),
	)
	return mapUniqueViolation(err)
}

func (r *invitationsRepo) GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	var (
		inv                  domain.Invitation
		role                 string
		createdBy, usedBy    sql.NullString
		expiresAt, createdAt int64
		usedAt               sql.NullInt64
	)
	err := r.q.db.QueryRowContext(ctx, getInvitationByTokenHash, hash).Scan(
		&inv.ID,
		&inv.TokenHash,
		&inv.Email,
		&role,
		&inv.Metadata.Department,
		&createdBy,
		&expiresAt,
		&inv.Used,
		&usedBy,
		&usedAt,
		&createdAt,
	)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}

	inv.Role = domain.Role(role)
	inv.CreatedBy = mapNullString(createdBy)
	inv.UsedBy = mapNullString(usedBy)
	inv.UsedAt = mapNullMillis(usedAt)
	inv.ExpiresAt = fromMillis(expiresAt)
	inv.CreatedAt = fromMillis(createdAt)
	return inv, nil
}

func (r *invitationsRepo) MarkInvitationUsed(ctx context.Context, hash, usedBy string, now time.Time) error {
	res, err := r.q.db.ExecContext(ctx, markInvitationUsed,
		mapStringNull(usedBy),
		toMillis(now),
		hash,
		toMillis(now),
	)
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
	res, err := r.q.db.ExecContext(ctx, deleteExpiredInvitations, toMillis(before))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
