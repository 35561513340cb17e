package onbdsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the onbd service. It performs unauthenticated
// operations and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// AuthenticateWithPassword logs in and wraps the token in a Session.
func (c *SDKClient) AuthenticateWithPassword(ctx context.Context, email, password string) (*Session, error) {
	tok, err := c.Login(ctx, LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return c.NewSessionFromToken(tok.AccessToken, tok.ExpiresIn), nil
}

// NewSessionFromToken wraps an existing access token.
func (c *SDKClient) NewSessionFromToken(accessToken string, expiresIn int) *Session {
	return &Session{
		client:      c,
		accessToken: accessToken,
		expiresAt:   time.Now().Add(time.Duration(expiresIn) * time.Second),
	}
}
