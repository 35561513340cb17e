package onbdsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Register redeems an invitation token and creates the contributor.
// This is a public endpoint (no authentication required).
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*ContributorResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/register", req, nil)
	if err != nil {
		return nil, err
	}

	var contributor ContributorResponse
	if err := decodeJSON(resp, &contributor, http.StatusCreated); err != nil {
		return nil, err
	}
	return &contributor, nil
}

// Status reports the approval status of a registered contributor.
func (c *SDKClient) Status(ctx context.Context, contributorID string) (*StatusResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/registration-status/"+url.PathEscape(contributorID), nil, nil)
	if err != nil {
		return nil, err
	}

	var status StatusResponse
	if err := decodeJSON(resp, &status, http.StatusOK); err != nil {
		return nil, err
	}
	return &status, nil
}
