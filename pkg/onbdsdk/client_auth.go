package onbdsdk

import (
	"context"
	"net/http"
)

// Login exchanges credentials for a session token.
func (c *SDKClient) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/login", req, nil)
	if err != nil {
		return nil, err
	}

	var tok TokenResponse
	if err := decodeJSON(resp, &tok, http.StatusOK); err != nil {
		return nil, err
	}
	return &tok, nil
}
