package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/onbd/internal/onbd/domain"
	"github.com/aussiebroadwan/onbd/internal/onbd/store"
	"github.com/aussiebroadwan/onbd/pkg/cryptox"
	"github.com/aussiebroadwan/onbd/pkg/idx"
	"github.com/aussiebroadwan/onbd/pkg/slogx"
	"github.com/google/uuid"
)

const (
	MinNameLength     = 3
	MinPasswordLength = 6
)

// InviteService issues invitations and turns them into contributors.
type InviteService struct {
	Store  store.Store
	Cipher *cryptox.FieldCipher

	// TTL overrides domain.InvitationTTL when positive.
	TTL time.Duration

	// Now is the clock used for expiry decisions. Defaults to time.Now.
	Now func() time.Time
}

// InvitationTicket is handed to the inviter exactly once.
type InvitationTicket struct {
	Token     string
	ExpiresAt time.Time
}

type RedeemRequest struct {
	Token    string
	Name     string
	Password string

	// Role optionally replaces the invited role.
	Role domain.Role
}

func (s *InviteService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return domain.InvitationTTL
}

// IssueInvitation creates a single-use invitation for email.
func (s *InviteService) IssueInvitation(
	ctx context.Context,
	email string,
	role domain.Role,
	metadata domain.InvitationMetadata,
	createdBy string,
) (InvitationTicket, error) {
	log := slogx.FromContext(ctx)

	email = NormalizeEmail(email)
	if email == "" {
		return InvitationTicket{}, ErrInvalidRequest
	}
	if !role.Invitable() {
		log.Warn("attempted to invite with invalid role", slog.String("role", string(role)))
		return InvitationTicket{}, ErrInvalidRole
	}

	token, err := cryptox.GenerateHexToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invitation token", slog.Any("error", err))
		return InvitationTicket{}, err
	}

	now := clock(s.Now).now()
	inv := domain.Invitation{
		ID:        idx.NewAt(now).String(),
		TokenHash: cryptox.FingerprintToken(token),
		Email:     email,
		Role:      role,
		Metadata:  domain.InvitationMetadata{Department: strings.TrimSpace(metadata.Department)},
		CreatedBy: createdBy,
		ExpiresAt: now.Add(s.ttl()),
		CreatedAt: now,
	}

	if err := s.Store.Invitations().CreateInvitation(ctx, inv); err != nil {
		log.Error("failed to create invitation",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return InvitationTicket{}, err
	}

	log.Info("invitation issued",
		slog.String("invitation_id", inv.ID),
		slog.String("role", string(role)),
		slog.String("created_by", createdBy),
		slog.Time("expires_at", inv.ExpiresAt),
	)

	return InvitationTicket{Token: token, ExpiresAt: inv.ExpiresAt}, nil
}

// RedeemInvitation consumes an invitation and creates the contributor in
// one transaction. The invitation is marked used only if the contributor
// row was written.
func (s *InviteService) RedeemInvitation(ctx context.Context, req RedeemRequest) (domain.Contributor, error) {
	log := slogx.FromContext(ctx)

	req.Name = strings.TrimSpace(req.Name)
	if req.Token == "" || !longEnough(req.Name, MinNameLength) || !longEnough(req.Password, MinPasswordLength) {
		return domain.Contributor{}, ErrInvalidRequest
	}
	if req.Role != "" && !req.Role.Invitable() {
		return domain.Contributor{}, ErrInvalidRole
	}

	now := clock(s.Now).now()
	fingerprint := cryptox.FingerprintToken(req.Token)

	inv, err := s.Store.Invitations().GetInvitationByTokenHash(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("registration attempted with unknown invitation token")
			return domain.Contributor{}, ErrInvalidOrExpiredToken
		}
		log.Error("failed to fetch invitation", slog.Any("error", err))
		return domain.Contributor{}, err
	}
	if !inv.Redeemable(now) {
		log.Warn("registration attempted with used or expired invitation",
			slog.String("invitation_id", inv.ID),
			slog.Bool("used", inv.Used),
		)
		return domain.Contributor{}, ErrInvalidOrExpiredToken
	}

	passwordHash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return domain.Contributor{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.Contributor{}, err
	}

	bankAccount, err := s.Cipher.Encrypt("")
	if err != nil {
		log.Error("failed to encrypt bank account", slog.Any("error", err))
		return domain.Contributor{}, err
	}

	role := inv.Role
	if req.Role != "" && req.Role != inv.Role {
		log.Warn("registration overrides invited role",
			slog.String("invitation_id", inv.ID),
			slog.String("invited_role", string(inv.Role)),
			slog.String("requested_role", string(req.Role)),
		)
		role = req.Role
	}

	c := domain.Contributor{
		ID:           uuid.NewString(),
		Email:        inv.Email,
		Name:         req.Name,
		PasswordHash: passwordHash,
		Role:         role,
		Status:       domain.StatusPendingApproval,
		BankAccount:  bankAccount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Invitations().MarkInvitationUsed(ctx, fingerprint, c.ID, now); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrInvalidOrExpiredToken
			}
			return err
		}
		if err := tx.Contributors().CreateContributor(ctx, c); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailAlreadyRegistered
			}
			return err
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidOrExpiredToken):
			log.Warn("invitation was redeemed concurrently", slog.String("invitation_id", inv.ID))
		case errors.Is(err, ErrEmailAlreadyRegistered):
			log.Warn("registration attempted for existing email", slog.String("invitation_id", inv.ID))
		default:
			log.Error("failed to redeem invitation",
				slog.String("invitation_id", inv.ID),
				slog.Any("error", err),
			)
		}
		return domain.Contributor{}, err
	}

	log.Info("contributor registered via invitation",
		slog.String("contributor_id", c.ID),
		slog.String("invitation_id", inv.ID),
		slog.String("role", string(c.Role)),
	)

	return c, nil
}

// GetStatus returns the approval status of a contributor.
func (s *InviteService) GetStatus(ctx context.Context, contributorID string) (domain.Status, error) {
	if _, err := uuid.Parse(contributorID); err != nil {
		return "", ErrContributorNotFound
	}

	c, err := s.Store.Contributors().GetContributorByID(ctx, contributorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrContributorNotFound
		}
		slogx.FromContext(ctx).Error("failed to fetch contributor", slog.Any("error", err))
		return "", err
	}
	return c.Status, nil
}
