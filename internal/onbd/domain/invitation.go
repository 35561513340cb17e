package domain

import "time"

// InvitationTTL is how long a freshly issued invitation stays redeemable.
const InvitationTTL = 24 * time.Hour

type InvitationMetadata struct {
	Department string
}

type Invitation struct {
	ID        string // ULID
	TokenHash string // base64url(sha256(token)); the raw token is never stored
	Email     string
	Role      Role
	Metadata  InvitationMetadata
	CreatedBy string // inviter id, empty when unknown
	ExpiresAt time.Time
	Used      bool
	UsedBy    string // contributor id, empty until redeemed
	UsedAt    *time.Time
	CreatedAt time.Time
}

// Redeemable reports whether the invitation can still be redeemed at now.
// Expiry is inclusive: an invitation is valid up to and including ExpiresAt.
func (i Invitation) Redeemable(now time.Time) bool {
	return !i.Used && !now.After(i.ExpiresAt)
}
