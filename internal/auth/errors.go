package auth

import "errors"

var (
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrInvalidCredentials    = errors.New("Invalid email or password")
	ErrEmailTaken            = errors.New("Email already registered")
	ErrUsernameTaken         = errors.New("Username already registered")
	ErrAccountDisabled       = errors.New("Account is disabled")
	ErrInvalidRefreshToken   = errors.New("Invalid or expired refresh token")
	ErrNotAuthenticated      = errors.New("Not authenticated")
)
