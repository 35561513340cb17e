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

type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Contributor Login
//	@Description	Exchange an email and password for a session token. Unknown emails and wrong passwords produce the same response. Login is not gated on approval status.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		onbdsdk.LoginRequest			true	"Credentials"
//	@Success		200		{object}	onbdsdk.TokenResponse			"access_token, token_type, expires_in"
//	@Failure		400		{object}	onbdsdk.ValidationErrorResponse	"Missing email or password"
//	@Failure		401		{object}	onbdsdk.ErrorResponse			"Invalid credentials"
//	@Failure		429		{object}	onbdsdk.ErrorResponse			"Rate limit exceeded"
//	@Failure		500		{object}	onbdsdk.ErrorResponse			"error, error_description"
//	@Router			/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req onbdsdk.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationError(w, errs)
		return
	}

	tok, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, onbdsdk.ErrorCodeInvalidCredentials, "Invalid credentials")
			return
		}
		slogx.FromContext(r.Context()).Error("login failed", slog.Any("error", err))
		writeServerError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, onbdsdk.TokenResponse{
		AccessToken: tok.Token,
		TokenType:   tok.TokenType,
		ExpiresIn:   tok.ExpiresIn,
	})
}
