package httpx

import (
	"context"
	"sync"

	"github.com/aussiebroadwan/onbd/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyRole   ctxKey = "role"
	ctxKeyAudit  ctxKey = "audit"
)

// UserIDFromContext returns the authenticated subject, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeyUserID).(string)
	return v, ok && v != ""
}

// RoleFromContext returns the authenticated role, if any.
func RoleFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeyRole).(string)
	return v, ok && v != ""
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyRole, c.Role)
	if h := auditHolderFromContext(ctx); h != nil {
		h.setUserID(c.Subject)
	}
	return ctx
}

// auditHolder lets inner middleware report the caller identity back to the
// audit middleware, which only sees the outer request context.
type auditHolder struct {
	mu     sync.Mutex
	userID string
}

func (h *auditHolder) setUserID(id string) {
	h.mu.Lock()
	h.userID = id
	h.mu.Unlock()
}

func (h *auditHolder) UserID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.userID
}

func withAuditHolder(ctx context.Context, h *auditHolder) context.Context {
	return context.WithValue(ctx, ctxKeyAudit, h)
}

func auditHolderFromContext(ctx context.Context) *auditHolder {
	h, _ := ctx.Value(ctxKeyAudit).(*auditHolder)
	return h
}
