package service

import (
	"strings"
	"time"
	"unicode/utf8"
)

type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// longEnough counts characters, not bytes.
func longEnough(s string, n int) bool {
	return utf8.RuneCountInString(s) >= n
}
