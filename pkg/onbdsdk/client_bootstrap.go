package onbdsdk

import (
	"context"
	"net/http"
)

// BootstrapTokenHeader carries the pre-shared bootstrap token.
const BootstrapTokenHeader = "X-Bootstrap-Token"

// Bootstrap creates the first administrator.
func (c *SDKClient) Bootstrap(ctx context.Context, token string, req BootstrapRequest) (*BootstrapResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/bootstrap", req, map[string]string{
		BootstrapTokenHeader: token,
	})
	if err != nil {
		return nil, err
	}

	var out BootstrapResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
