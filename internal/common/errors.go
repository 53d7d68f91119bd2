package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Submission errors
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidContent     = errors.New("invalid content")
	ErrIllegalTransition  = errors.New("illegal status transition")
	ErrConflict           = errors.New("concurrent modification detected")
	ErrUnavailable        = errors.New("storage unavailable")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)
