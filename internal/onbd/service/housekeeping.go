package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/onbd/internal/onbd/store"
)

// ExpiredInvitationRetention is how long an expired invitation is kept
// before housekeeping removes it.
const ExpiredInvitationRetention = 7 * 24 * time.Hour

// HousekeepingService periodically removes long-expired invitations.
// Audit entries are never pruned.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs one pass and returns the number of invitations removed.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	cutoff := clock(s.Now).now().Add(-ExpiredInvitationRetention)

	n, err := s.Store.Invitations().DeleteExpiredInvitations(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to delete expired invitations", "error", err)
		return 0
	}

	s.Logger.Info("housekeeping cleanup completed",
		slog.Int64("invitations_deleted", n),
		slog.Time("cutoff", cutoff),
	)
	return n
}
