package domain

import "errors"

// Common errors
var (
	ErrNotFound           = errors.New("record not found")
	ErrForbidden          = errors.New("access forbidden: you don't own this resource")
	ErrPlanInUse          = errors.New("plan is referenced by an active subscription")
	ErrInvalidDuration    = errors.New("plan duration must be a positive number of days")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrLastAdmin          = errors.New("cannot remove the last admin account")
	ErrRegistrationClosed = errors.New("user registration is disabled")
)
