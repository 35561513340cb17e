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

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles the bootstrap endpoint for initial system setup.
//
//	@Summary		Bootstrap the onboarding service
//	@Description	Creates the first administrator with status approved. Only available when a bootstrap token is configured and only while no contributor exists.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string							true	"Bootstrap token for authorization"
//	@Param			request				body		onbdsdk.BootstrapRequest		true	"Administrator account"
//	@Success		201					{object}	onbdsdk.BootstrapResponse		"id, email"
//	@Failure		400					{object}	onbdsdk.ValidationErrorResponse	"Invalid request body or validation failed"
//	@Failure		401					{object}	onbdsdk.ErrorResponse			"Missing or invalid bootstrap token"
//	@Failure		404					{object}	onbdsdk.ErrorResponse			"Bootstrap not enabled (no token configured)"
//	@Failure		409					{object}	onbdsdk.ErrorResponse			"System already bootstrapped"
//	@Failure		500					{object}	onbdsdk.ErrorResponse			"Failed to create administrator"
//	@Router			/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	// 1. Check if enabled
	if !h.BootstrapService.Enabled() {
		writeError(w, http.StatusNotFound, onbdsdk.ErrorCodeNotFound, "Bootstrap endpoint is not enabled")
		return
	}

	// 2. Require bootstrap token header
	token := r.Header.Get(onbdsdk.BootstrapTokenHeader)
	if token == "" {
		writeError(w, http.StatusUnauthorized, onbdsdk.ErrorCodeUnauthorized,
			"Bootstrap token is required in X-Bootstrap-Token header")
		return
	}

	// 3. Parse request body and validate
	var req onbdsdk.BootstrapRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationError(w, errs)
		return
	}

	// 4. Perform bootstrap
	admin, err := h.BootstrapService.Bootstrap(r.Context(), token, domain.BootstrapData{
		Email:    req.AdminEmail,
		Name:     req.AdminName,
		Password: req.AdminPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			writeError(w, http.StatusUnauthorized, onbdsdk.ErrorCodeUnauthorized, "Invalid bootstrap token")
		case errors.Is(err, service.ErrBootstrapAlready):
			writeError(w, http.StatusConflict, onbdsdk.ErrorCodeAlreadyBootstrapped, "System has already been bootstrapped")
		case errors.Is(err, service.ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, onbdsdk.ErrorCodeInvalidRequest, "Invalid administrator details")
		default:
			l.Error("bootstrap failed", slog.Any("error", err))
			writeServerError(w)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, onbdsdk.BootstrapResponse{
		ID:    admin.ID,
		Email: admin.Email,
	})
}
