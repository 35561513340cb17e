package service_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/onbd/internal/onbd/service"
	"github.com/aussiebroadwan/onbd/internal/onbd/store"
	"github.com/aussiebroadwan/onbd/internal/onbd/store/storetest"
	"github.com/aussiebroadwan/onbd/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingService_Cleanup(t *testing.T) {
	st := newTestStore(t)
	ctx := t.Context()
	now := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)

	stale := storetest.NewInvitation("stale", now.Add(-8*24*time.Hour))
	recent := storetest.NewInvitation("recent", now.Add(-6*24*time.Hour))
	live := storetest.NewInvitation("live", now.Add(time.Hour))
	require.NoError(t, st.Invitations().CreateInvitation(ctx, stale))
	require.NoError(t, st.Invitations().CreateInvitation(ctx, recent))
	require.NoError(t, st.Invitations().CreateInvitation(ctx, live))

	hk := service.NewHousekeepingService(st, slogx.Discard(), time.Hour)
	hk.Now = func() time.Time { return now }

	require.Equal(t, int64(1), hk.Cleanup(ctx))

	_, err := st.Invitations().GetInvitationByTokenHash(ctx, "stale")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Invitations().GetInvitationByTokenHash(ctx, "recent")
	require.NoError(t, err)
	_, err = st.Invitations().GetInvitationByTokenHash(ctx, "live")
	require.NoError(t, err)
}

func TestHousekeepingService_StartStop(t *testing.T) {
	hk := service.NewHousekeepingService(newTestStore(t), slogx.Discard(), 0)
	require.Equal(t, time.Hour, hk.Interval)

	hk.Start()
	hk.Stop()
}
