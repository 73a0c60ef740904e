package authz

import "errors"

// Custom errors
var (
	ErrInvalidInput               = errors.New("invalid input")
	ErrUnauthorized               = errors.New("UNAUTHORIZED")
	ErrPermissionDenied           = errors.New("PERMISSION_DENIED")
	ErrInsufficientPermissions    = errors.New("INSUFFICIENT_PERMISSIONS")
	ErrMissingRequiredPermissions = errors.New("MISSING_REQUIRED_PERMISSIONS")
)
