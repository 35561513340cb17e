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

type InviteHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Invite a Contributor
//	@Description	Issue a single-use invitation token valid for 24 hours. The raw token is only returned here. Admin only.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		onbdsdk.InviteRequest			true	"Invitation request"
//	@Success		201		{object}	onbdsdk.InviteResponse			"token, expires_at"
//	@Failure		400		{object}	onbdsdk.ValidationErrorResponse	"Invalid email or role"
//	@Failure		401		{object}	onbdsdk.ErrorResponse			"Missing or invalid bearer token"
//	@Failure		403		{object}	onbdsdk.ErrorResponse			"Caller is not an admin"
//	@Failure		429		{object}	onbdsdk.ErrorResponse			"Rate limit exceeded"
//	@Failure		500		{object}	onbdsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/invite-contributor [post].
func (h *InviteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req onbdsdk.InviteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationError(w, errs)
		return
	}

	inviterID, _ := httpx.UserIDFromContext(ctx)

	ticket, err := h.InviteService.IssueInvitation(ctx,
		req.Email,
		domain.Role(req.Role),
		domain.InvitationMetadata{Department: req.Department},
		inviterID,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			writeError(w, http.StatusBadRequest, onbdsdk.ErrorCodeInvalidRole, "Role must be one of: pgc, npgc")
		case errors.Is(err, service.ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, onbdsdk.ErrorCodeInvalidRequest, "Invalid invitation parameters")
		default:
			log.Error("failed to issue invitation", slog.Any("error", err))
			writeServerError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, onbdsdk.InviteResponse{
		Token:     ticket.Token,
		ExpiresAt: ticket.ExpiresAt,
	})
}
