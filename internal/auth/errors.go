package auth

import "errors"

var (
	// ErrUserNotFound is returned when no account matches the login identifier.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled user account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInvalidToken is returned when a bearer token is missing, malformed,
	// expired, or signed with the wrong key.
	ErrInvalidToken = errors.New("invalid bearer token")
)
