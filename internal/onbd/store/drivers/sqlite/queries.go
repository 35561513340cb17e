package sqlite

import (
	"context"
	"database/sql"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so every repo can run
// inside or outside a transaction.
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
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

const getContributorByID = `SELECT ` + contributorColumns + ` FROM contributors WHERE id = ?`

const getContributorByEmail = `SELECT ` + contributorColumns + ` FROM contributors WHERE email = ?`

const countContributors = `SELECT COUNT(*) FROM contributors`

const createInvitation = `
INSERT INTO invitations (` + invitationColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, 0, NULL, NULL, ?)`

const getInvitationByTokenHash = `SELECT ` + invitationColumns + ` FROM invitations WHERE token_hash = ?`

const markInvitationUsed = `
UPDATE invitations
SET used = 1, used_by = ?, used_at = ?
WHERE token_hash = ? AND used = 0 AND expires_at >= ?`

const deleteExpiredInvitations = `DELETE FROM invitations WHERE expires_at < ?`

const appendAuditEntry = `
INSERT INTO audit_log (` + auditColumns + `)
VALUES (?, ?, ?, ?, ?, ?)`

const listAuditEntries = `
SELECT ` + auditColumns + ` FROM audit_log
ORDER BY created_at DESC, id DESC
LIMIT ?`
