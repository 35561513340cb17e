package domain

import "time"

type AuditEntry struct {
	ID         string // ULID
	UserID     string // empty for anonymous requests
	IP         string
	Path       string // request URI including query
	StatusCode int
	CreatedAt  time.Time
}
