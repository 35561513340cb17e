package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/onbd/internal/onbd/service"
	"github.com/aussiebroadwan/onbd/pkg/httpx"
	"github.com/aussiebroadwan/onbd/pkg/onbdsdk"
	"github.com/aussiebroadwan/onbd/pkg/slogx"
)

type StatusHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Registration Status
//	@Description	Returns the approval status of a registered contributor.
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path		string					true	"Contributor ID"
//	@Success		200	{object}	onbdsdk.StatusResponse	"status"
//	@Failure		404	{object}	onbdsdk.ErrorResponse	"Contributor not found"
//	@Failure		500	{object}	onbdsdk.ErrorResponse	"error, error_description"
//	@Router			/registration-status/{id} [get].
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status, err := h.InviteService.GetStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrContributorNotFound) {
			writeError(w, http.StatusNotFound, onbdsdk.ErrorCodeNotFound, "Contributor not found")
			return
		}
		slogx.FromContext(r.Context()).Error("status lookup failed", slog.Any("error", err))
		writeServerError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, onbdsdk.StatusResponse{Status: string(status)})
}
