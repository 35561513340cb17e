package onbdsdk

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrSessionExpired is returned before a request is sent with a token that
// has already expired. Log in again to continue.
var ErrSessionExpired = errors.New("onbd: session token expired")

// Session performs requests on behalf of a logged-in contributor.
type Session struct {
	client      *SDKClient
	accessToken string
	expiresAt   time.Time
}

// AccessToken returns the bearer token held by the session.
func (s *Session) AccessToken() string { return s.accessToken }

func (s *Session) doAuthRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	if !s.expiresAt.IsZero() && time.Now().After(s.expiresAt) {
		return nil, ErrSessionExpired
	}
	return s.client.doRequest(ctx, method, path, body, map[string]string{
		"Authorization": "Bearer " + s.accessToken,
	})
}

// Invite issues an invitation. The caller must hold the admin role.
func (s *Session) Invite(ctx context.Context, req InviteRequest) (*InviteResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/invite-contributor", req)
	if err != nil {
		return nil, err
	}

	var out InviteResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
