package service

import "errors"

var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidOrExpiredToken  = errors.New("invalid or expired token")
	ErrContributorNotFound    = errors.New("contributor not found")
	ErrInvalidRole            = errors.New("invalid role")
	ErrInvalidRequest         = errors.New("invalid request")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
	ErrBootstrapDisabled     = errors.New("bootstrap is not enabled")
)
