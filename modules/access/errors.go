package access

import "errors"

var (
	ErrUnknownRole        = errors.New("access.unknown_role")
	ErrInvalidEmail       = errors.New("access.invalid_email")
	ErrWeakPassword       = errors.New("access.weak_password")
	ErrUserNotFound       = errors.New("access.user_not_found")
	ErrEmailTaken         = errors.New("access.email_taken")
	ErrInvalidCredentials = errors.New("access.invalid_credentials")
	ErrGateway            = errors.New("access.gateway_failure")
)
