package model

import "errors"

var (
	// Session related errors
	ErrMissingToken  = errors.New("access token is required")
	ErrInvalidClaims = errors.New("invalid token claims")

	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Project related errors
	ErrProjectNotFound = errors.New("project not found")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
