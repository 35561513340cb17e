package onbdsdk

import "time"

// Roles that can be requested through an invitation.
const (
	RoleAdmin = "admin"
	RolePGC   = "pgc"
	RoleNPGC  = "npgc"
)

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	// Error is a machine readable code (e.g., "invalid_token")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description,omitempty"`
}

// ValidationErrorResponse is returned when request validation fails.
type ValidationErrorResponse struct {
	// Code is always "validation_error"
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details contains field-specific validation errors (field name: error message)
	Details map[string]string `json:"details,omitempty"`
}

// ============================================================================
// Authentication
// ============================================================================

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned from POST /auth/login.
type TokenResponse struct {
	// AccessToken is the HS256 session token
	AccessToken string `json:"access_token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int `json:"expires_in"`
}

// ============================================================================
// Invitations & Registration
// ============================================================================

type InviteRequest struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
}

// InviteResponse carries the raw invitation token. It is only ever shown once.
type InviteResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RegisterRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Password string `json:"password"`

	// Role optionally replaces the invited role
	Role string `json:"role,omitempty"`
}

// ContributorResponse is the public view of a contributor. It never includes
// the password hash or the bank account.
type ContributorResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

// ============================================================================
// Bootstrap
// ============================================================================

type BootstrapRequest struct {
	AdminEmail    string `json:"admin_email"`
	AdminName     string `json:"admin_name"`
	AdminPassword string `json:"admin_password"`
}

type BootstrapResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string            `json:"status"`
	Uptime  string            `json:"uptime"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}
