package postgres

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/onbd/internal/onbd/domain"
	"github.com/aussiebroadwan/onbd/internal/onbd/store"
	"github.com/google/uuid"
)

type contributorsRepo struct {
	q *queries
}

func (r *contributorsRepo) GetContributorByID(ctx context.Context, id string) (domain.Contributor, error) {
	// The column is UUID typed; anything else can never match.
	if _, err := uuid.Parse(id); err != nil {
		return domain.Contributor{}, store.ErrNotFound
	}
	return scanContributor(r.q.db.QueryRowContext(ctx, getContributorByID, id))
}

func (r *contributorsRepo) GetContributorByEmail(ctx context.Context, email string) (domain.Contributor, error) {
	return scanContributor(r.q.db.QueryRowContext(ctx, getContributorByEmail, email))
}

func (r *contributorsRepo) CreateContributor(ctx context.Context, c domain.Contributor) error {
	_, err := r.q.db.ExecContext(ctx, createContributor,
		c.ID,
		c.Email,
		c.Name,
		c.PasswordHash,
		string(c.Role),
		string(c.Status),
		c.BankAccount,
		c.CreatedAt.UTC(),
		c.UpdatedAt.UTC(),
	)
	return mapUniqueViolation(err)
}

func (r *contributorsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var exists bool
	if err := r.q.db.QueryRowContext(ctx, contributorsExist).Scan(&exists); err != nil {
		return false, err
	}
	return !exists, nil
}

func scanContributor(row *sql.Row) (domain.Contributor, error) {
	var (
		c            domain.Contributor
		role, status string
	)
	err := row.Scan(
		&c.ID,
		&c.Email,
		&c.Name,
		&c.PasswordHash,
		&role,
		&status,
		&c.BankAccount,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return domain.Contributor{}, mapNotFound(err)
	}

	c.Role = domain.Role(role)
	c.Status = domain.Status(status)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}
