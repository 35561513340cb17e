package postgres

import (
	"context"
	"database/sql"
)

type dbtx interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type queries struct {
	db dbtx
}

func newQueries(db dbtx) *queries { return &queries{db: db} }

const (
	contributorColumns = `id, email, name, password_hash, role, status, bank_account, created_at, updated_at`
	invitationColumns  = `id, token_hash, email, role, department, created_by, expires_at, used, used_by, used_at, created_at`
	auditColumns       = `id, user_id, ip, path, status_code, created_at`
)

const createContributor = `
INSERT INTO contributors (` + contributorColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const getContributorByID = `SELECT ` + contributorColumns + ` FROM contributors WHERE id = $1`

const getContributorByEmail = `SELECT ` + contributorColumns + ` FROM contributors WHERE email = $1`

const contributorsExist = `SELECT EXISTS (SELECT 1 FROM contributors)`

const createInvitation = `
INSERT INTO invitations (` + invitationColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, NULL, NULL, $8)`

const getInvitationByTokenHash = `SELECT ` + invitationColumns + ` FROM invitations WHERE token_hash = $1`

const markInvitationUsed = `
UPDATE invitations
SET used = TRUE, used_by = $1, used_at = $2
WHERE token_hash = $3 AND used = FALSE AND expires_at >= $2`

const deleteExpiredInvitations = `DELETE FROM invitations WHERE expires_at < $1`

const appendAuditEntry = `
INSERT INTO audit_log (` + auditColumns + `)
VALUES ($1, $2, $3, $4, $5, $6)`

const listAuditEntries = `
SELECT ` + auditColumns + ` FROM audit_log
ORDER BY created_at DESC, id DESC
LIMIT $1`
