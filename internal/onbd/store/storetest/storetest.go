// Package storetest holds the behavioural suite every store driver must pass.
package storetest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/onbd/internal/onbd/domain"
	"github.com/aussiebroadwan/onbd/internal/onbd/store"
	"github.com/aussiebroadwan/onbd/pkg/idx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Factory returns a freshly migrated, empty store.
type Factory func(t *testing.T) store.Store

var base = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

// Run exercises the full store contract against newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("Contributors", func(t *testing.T) { testContributors(t, newStore(t)) })
	t.Run("Invitations", func(t *testing.T) { testInvitations(t, newStore(t)) })
	t.Run("MarkInvitationUsedConcurrent", func(t *testing.T) { testConcurrentRedeem(t, newStore(t)) })
	t.Run("WithTxRollback", func(t *testing.T) { testWithTxRollback(t, newStore(t)) })
	t.Run("AuditLog", func(t *testing.T) { testAuditLog(t, newStore(t)) })
}

func NewContributor(email string) domain.Contributor {
	return domain.Contributor{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         "Test Contributor",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuuJ2k5xY5ZrQ7WwqgkJzC8Lh0o3h7u6e",
		Role:         domain.RolePGC,
		Status:       domain.StatusPendingApproval,
		BankAccount:  "00112233445566778899aabbccddeeff:00112233445566778899aabbccddeeff",
		CreatedAt:    base,
		UpdatedAt:    base,
	}
}

func NewInvitation(hash string, expiresAt time.Time) domain.Invitation {
	return domain.Invitation{
		ID:        idx.New().String(),
		TokenHash: hash,
		Email:     "invitee@example.com",
		Role:      domain.RoleNPGC,
		Metadata:  domain.InvitationMetadata{Department: "engineering"},
		CreatedBy: "admin-1",
		ExpiresAt: expiresAt,
		CreatedAt: expiresAt.Add(-domain.InvitationTTL),
	}
}

func testContributors(t *testing.T, st store.Store) {
	ctx := context.Background()
	repo := st.Contributors()

	empty, err := repo.IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	c := NewContributor("alice@example.com")
	require.NoError(t, repo.CreateContributor(ctx, c))

	empty, err = repo.IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)

	byID, err := repo.GetContributorByID(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, c.Email, byID.Email)
	require.Equal(t, c.Role, byID.Role)
	require.Equal(t, c.Status, byID.Status)
	require.Equal(t, c.BankAccount, byID.BankAccount)
	require.Equal(t, c.PasswordHash, byID.PasswordHash)
	require.True(t, c.CreatedAt.Equal(byID.CreatedAt))

	byEmail, err := repo.GetContributorByEmail(ctx, c.Email)
	require.NoError(t, err)
	require.Equal(t, c.ID, byEmail.ID)

	dup := NewContributor("alice@example.com")
	err = repo.CreateContributor(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = repo.GetContributorByID(ctx, uuid.NewString())
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = repo.GetContributorByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testInvitations(t *testing.T, st store.Store) {
	ctx := context.Background()
	repo := st.Invitations()
	exp := base.Add(domain.InvitationTTL)

	inv := NewInvitation("hash-1", exp)
	require.NoError(t, repo.CreateInvitation(ctx, inv))
	require.ErrorIs(t, repo.CreateInvitation(ctx, NewInvitation("hash-1", exp)), store.ErrAlreadyExists)

	got, err := repo.GetInvitationByTokenHash(ctx, "hash-1")
	require.NoError(t, err)
	require.Equal(t, inv.ID, got.ID)
	require.Equal(t, inv.Email, got.Email)
	require.Equal(t, inv.Role, got.Role)
	require.Equal(t, "engineering", got.Metadata.Department)
	require.Equal(t, "admin-1", got.CreatedBy)
	require.True(t, exp.Equal(got.ExpiresAt))
	require.False(t, got.Used)
	require.Empty(t, got.UsedBy)
	require.Nil(t, got.UsedAt)

	_, err = repo.GetInvitationByTokenHash(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Expired by one second: the conditional update matches nothing.
	require.ErrorIs(t, repo.MarkInvitationUsed(ctx, "hash-1", "c-1", exp.Add(time.Second)), store.ErrConflict)

	// Exactly at expiry is still valid.
	require.NoError(t, repo.MarkInvitationUsed(ctx, "hash-1", "c-1", exp))
	require.ErrorIs(t, repo.MarkInvitationUsed(ctx, "hash-1", "c-2", exp.Add(-time.Hour)), store.ErrConflict)

	got, err = repo.GetInvitationByTokenHash(ctx, "hash-1")
	require.NoError(t, err)
	require.True(t, got.Used)
	require.Equal(t, "c-1", got.UsedBy)
	require.NotNil(t, got.UsedAt)

	require.ErrorIs(t, repo.MarkInvitationUsed(ctx, "missing", "c-1", base), store.ErrConflict)

	// Housekeeping removes only invitations expired before the cutoff.
	require.NoError(t, repo.CreateInvitation(ctx, NewInvitation("hash-old", base.Add(-8*24*time.Hour))))
	require.NoError(t, repo.CreateInvitation(ctx, NewInvitation("hash-new", base.Add(time.Hour))))

	n, err := repo.DeleteExpiredInvitations(ctx, base.Add(-7*24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = repo.GetInvitationByTokenHash(ctx, "hash-old")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = repo.GetInvitationByTokenHash(ctx, "hash-new")
	require.NoError(t, err)
}

func testConcurrentRedeem(t *testing.T, st store.Store) {
	ctx := context.Background()
	require.NoError(t, st.Invitations().CreateInvitation(ctx, NewInvitation("race", base.Add(time.Hour))))

	const n = 16
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := st.WithTx(ctx, func(tx store.Tx) error {
				return tx.Invitations().MarkInvitationUsed(ctx, "race", uuid.NewString(), base)
			})
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, store.ErrConflict):
				conflicts.Add(1)
			default:
				t.Errorf("worker %d: unexpected error: %v", i, err)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, successes.Load())
	require.EqualValues(t, n-1, conflicts.Load())
}

func testWithTxRollback(t *testing.T, st store.Store) {
	ctx := context.Background()
	require.NoError(t, st.Invitations().CreateInvitation(ctx, NewInvitation("tx", base.Add(time.Hour))))

	c := NewContributor("rollback@example.com")
	boom := errors.New("boom")

	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Invitations().MarkInvitationUsed(ctx, "tx", c.ID, base); err != nil {
			return err
		}
		if err := tx.Contributors().CreateContributor(ctx, c); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = st.Contributors().GetContributorByID(ctx, c.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	inv, err := st.Invitations().GetInvitationByTokenHash(ctx, "tx")
	require.NoError(t, err)
	require.False(t, inv.Used)

	// Nested transactions are refused.
	err = st.WithTx(ctx, func(tx store.Tx) error {
		return tx.WithTx(ctx, func(store.Tx) error { return nil })
	})
	require.Error(t, err)
}

func testAuditLog(t *testing.T, st store.Store) {
	ctx := context.Background()
	repo := st.AuditLog()

	for i := range 3 {
		userID := ""
		if i == 1 {
			userID = "user-1"
		}
		require.NoError(t, repo.AppendAuditEntry(ctx, domain.AuditEntry{
			ID:         idx.NewAt(base.Add(time.Duration(i) * time.Second)).String(),
			UserID:     userID,
			IP:         "10.0.0.1",
			Path:       "/register",
			StatusCode: 200 + i,
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}))
	}

	entries, err := repo.ListAuditEntries(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, 202, entries[0].StatusCode)
	require.Equal(t, 201, entries[1].StatusCode)
	require.Equal(t, "user-1", entries[1].UserID)
	require.Empty(t, entries[0].UserID)
}
