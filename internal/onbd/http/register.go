package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/onbd/internal/onbd/domain"
	"github.com/aussiebroadwan/onbd/internal/onbd/service"
	"github.com/aussiebroadwan/onbd/pkg/httpx"
	"github.com/aussiebroadwan/onbd/pkg/onbdsdk"
	"github.com/aussiebroadwan/onbd/pkg/slogx"
)

type RegisterHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Register with an Invitation
//	@Description	Redeem an invitation token and create a contributor in pending_approval status. Each token can be redeemed once, before it expires.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		onbdsdk.RegisterRequest			true	"Registration request"
//	@Success		201		{object}	onbdsdk.ContributorResponse		"id, email, name, role, status"
//	@Failure		400		{object}	onbdsdk.ErrorResponse			"Invalid or expired token, or validation failure"
//	@Failure		409		{object}	onbdsdk.ErrorResponse			"Email already registered"
//	@Failure		429		{object}	onbdsdk.ErrorResponse			"Rate limit exceeded"
//	@Failure		500		{object}	onbdsdk.ErrorResponse			"error, error_description"
//	@Router			/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req onbdsdk.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationError(w, errs)
		return
	}

	c, err := h.InviteService.RedeemInvitation(ctx, service.RedeemRequest{
		Token:    req.Token,
		Name:     req.Name,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrExpiredToken):
			writeError(w, http.StatusBadRequest, onbdsdk.ErrorCodeInvalidToken, "Invalid or expired token")
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			writeError(w, http.StatusConflict, onbdsdk.ErrorCodeEmailTaken, "Email already registered")
		case errors.Is(err, service.ErrInvalidRole):
			writeError(w, http.StatusBadRequest, onbdsdk.ErrorCodeInvalidRole, "Role must be one of: pgc, npgc")
		case errors.Is(err, service.ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, onbdsdk.ErrorCodeInvalidRequest, "Invalid registration parameters")
		default:
			slogx.FromContext(ctx).Error("registration failed", slog.Any("error", err))
			writeServerError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, contributorResponse(c))
}

func contributorResponse(c domain.Contributor) onbdsdk.ContributorResponse {
	return onbdsdk.ContributorResponse{
		ID:     c.ID,
		Email:  c.Email,
		Name:   c.Name,
		Role:   string(c.Role),
		Status: string(c.Status),
	}
}
