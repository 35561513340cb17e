package onbdsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes returned by the service.
const (
	ErrorCodeInvalidRequest      = "invalid_request"
	ErrorCodeValidation          = "validation_error"
	ErrorCodeInvalidCredentials  = "invalid_credentials"
	ErrorCodeInvalidToken        = "invalid_token"
	ErrorCodeInvalidRole         = "invalid_role"
	ErrorCodeNotFound            = "not_found"
	ErrorCodeEmailTaken          = "email_already_registered"
	ErrorCodeAlreadyBootstrapped = "already_bootstrapped"
	ErrorCodeUnauthorized        = "unauthorized"
	ErrorCodeForbidden           = "forbidden"
	ErrorCodeRateLimited         = "rate_limit_exceeded"
	ErrorCodeServerError         = "server_error"
)

// APIError is a non-2xx response decoded by the client.
type APIError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int

	// Code is the error code (e.g., "invalid_token")
	Code string

	// Description is a human-readable description of the error
	Description string

	// Details holds per-field messages for validation errors
	Details map[string]string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("onbd: %d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("onbd: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

// parseErrorResponse converts an error body into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	var valErr ValidationErrorResponse
	if err := json.Unmarshal(body, &valErr); err == nil && valErr.Code != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        valErr.Code,
			Description: valErr.Message,
			Details:     valErr.Details,
		}
	}

	// Fallback: create generic error from status code
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        http.StatusText(resp.StatusCode),
		Description: string(body),
	}
}
