package postgres

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/onbd/internal/onbd/store"
)

// TruncateForTest wipes every table inside tx.
func TruncateForTest(tx store.Tx) error {
	t, ok := tx.(*txStore)
	if !ok {
		return errors.New("postgres: unexpected tx type")
	}
	_, err := t.tx.ExecContext(context.Background(),
		`TRUNCATE contributors, invitations, audit_log`)
	return err
}
