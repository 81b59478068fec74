package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("operation not permitted for this user")
	ErrNoEmployeeProfile  = errors.New("user has no employee profile")
)
