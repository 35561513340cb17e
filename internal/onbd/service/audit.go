package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/onbd/internal/onbd/domain"
	"github.com/aussiebroadwan/onbd/internal/onbd/store"
	"github.com/aussiebroadwan/onbd/pkg/httpx"
	"github.com/aussiebroadwan/onbd/pkg/idx"
)

// DefaultAuditBufferSize is used when NewAuditService is given a
// non-positive size.
const DefaultAuditBufferSize = 1024

// auditWriteTimeout bounds a single persistence attempt.
const auditWriteTimeout = 5 * time.Second

// AuditService persists audit entries on a background worker. Record never
// blocks the caller; a full buffer drops the entry.
type AuditService struct {
	store  store.Store
	logger *slog.Logger

	ch      chan domain.AuditEntry
	done    chan struct{}
	wg      sync.WaitGroup
	dropped atomic.Uint64

	// mu orders sends against Close: Record holds it shared while it
	// enqueues, Close takes it exclusively to flip closed.
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

func NewAuditService(s store.Store, logger *slog.Logger, bufferSize int) *AuditService {
	if bufferSize <= 0 {
		bufferSize = DefaultAuditBufferSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &AuditService{
		store:  s,
		logger: logger,
		ch:     make(chan domain.AuditEntry, bufferSize),
		done:   make(chan struct{}),
	}

	a.wg.Add(1)
	go a.run()

	return a
}

func (a *AuditService) run() {
	defer a.wg.Done()

	for {
		select {
		case e := <-a.ch:
			a.persist(e)
		case <-a.done:
			for {
				select {
				case e := <-a.ch:
					a.persist(e)
				default:
					return
				}
			}
		}
	}
}

func (a *AuditService) persist(e domain.AuditEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
	defer cancel()

	if err := a.store.AuditLog().AppendAuditEntry(ctx, e); err != nil {
		a.logger.Error("failed to persist audit entry",
			slog.String("path", e.Path),
			slog.Int("status", e.StatusCode),
			slog.Any("error", err),
		)
	}
}

// Record enqueues e for persistence and reports whether it was accepted.
// Missing ids and timestamps are filled. An accepted entry is persisted
// before Close returns.
func (a *AuditService) Record(_ context.Context, e domain.AuditEntry) bool {
	if a == nil {
		return false
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.ID == "" {
		e.ID = idx.NewAt(e.CreatedAt).String()
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return false
	}

	select {
	case a.ch <- e:
		return true
	default:
		n := a.dropped.Add(1)
		a.logger.Warn("audit buffer full, entry dropped",
			slog.String("path", e.Path),
			slog.Uint64("dropped_total", n),
		)
		return false
	}
}

// Hook adapts Record to the HTTP audit middleware.
func (a *AuditService) Hook() httpx.AuditHook {
	return func(ctx context.Context, rec httpx.AuditRecord) {
		a.Record(ctx, domain.AuditEntry{
			UserID:     rec.UserID,
			IP:         rec.IP,
			Path:       rec.Path,
			StatusCode: rec.Status,
			CreatedAt:  rec.At,
		})
	}
}

// Close stops accepting entries and waits until the buffer is drained.
func (a *AuditService) Close() {
	if a == nil {
		return
	}
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		a.mu.Unlock()

		close(a.done)
		a.wg.Wait()
		a.logger.Info("audit recorder drained", slog.Uint64("dropped_total", a.dropped.Load()))
	})
}

// Dropped reports how many entries were discarded because the buffer was full.
func (a *AuditService) Dropped() uint64 {
	if a == nil {
		return 0
	}
	return a.dropped.Load()
}
