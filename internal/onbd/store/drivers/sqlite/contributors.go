package sqlite

import (
	"context"

	"github.com/aussiebroadwan/onbd/internal/onbd/domain"
)

type contributorsRepo struct {
	q *queries
}

func (r *contributorsRepo) GetContributorByID(ctx context.Context, id string) (domain.Contributor, error) {
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
		toMillis(c.CreatedAt),
		toMillis(c.UpdatedAt),
	)
	return mapUniqueViolation(err)
}

func (r *contributorsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int64
	if err := r.q.db.QueryRowContext(ctx, countContributors).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

func scanContributor(row interface{ Scan(...any) error }) (domain.Contributor, error) {
	var (
		c                    domain.Contributor
		role, status         string
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&c.ID,
		&c.Email,
		&c.Name,
		&c.PasswordHash,
		&role,
		&status,
		&c.BankAccount,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Contributor{}, mapNotFound(err)
	}

	c.Role = domain.Role(role)
	c.Status = domain.Status(status)
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return c, nil
}
