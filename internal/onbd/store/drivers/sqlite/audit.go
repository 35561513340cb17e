package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/onbd/internal/onbd/domain"
)

type auditRepo struct {
	q *queries
}

func (r *auditRepo) AppendAuditEntry(ctx context.Context, e domain.AuditEntry) error {
	_, err := r.q.db.ExecContext(ctx, appendAuditEntry,
		e.ID,
		mapStringNull(e.UserID),
		e.IP,
		e.Path,
		e.StatusCode,
		toMillis(e.CreatedAt),
	)
	return err
}

func (r *auditRepo) ListAuditEntries(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.q.db.QueryContext(ctx, listAuditEntries, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var (
			e         domain.AuditEntry
			userID    sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &userID, &e.IP, &e.Path, &e.StatusCode, &createdAt); err != nil {
			return nil, err
		}
		e.UserID = mapNullString(userID)
		e.CreatedAt = fromMillis(createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}
