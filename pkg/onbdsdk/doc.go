/*
Package onbdsdk provides a client SDK for the onbd contributor onboarding service.

# Overview

The package holds the request and response types shared by the server and its
callers, their validation rules, and a small HTTP client.

  - SDKClient: unauthenticated operations (login, register, status, bootstrap, health)
  - Session: operations that need a bearer token (issuing invitations)

A typical onboarding flow:

	client := onbdsdk.NewSDKClient("https://onbd.example.com")

	admin, err := client.AuthenticateWithPassword(ctx, "admin@example.com", password)
	invite, err := admin.Invite(ctx, onbdsdk.InviteRequest{Email: "new@example.com", Role: onbdsdk.RolePGC})

	contributor, err := client.Register(ctx, onbdsdk.RegisterRequest{
		Token:    invite.Token,
		Name:     "New Contributor",
		Password: "s3cret!",
	})
	status, err := client.Status(ctx, contributor.ID)

# Errors

Non-2xx responses are returned as *APIError carrying the HTTP status and the
server's error code. Use errors.As to inspect them:

	var apiErr *onbdsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == onbdsdk.ErrorCodeInvalidToken {
		// invitation was used or has expired
	}
*/
package onbdsdk
