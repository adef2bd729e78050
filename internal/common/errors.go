// Package common defines shared constants and sentinel errors used across
// the server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
	ErrorInvalidID     = errors.New("invalid id")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken    = errors.New("invalid token")
	ErrInvalidAudience = errors.New("invalid token audience")
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenOther      = errors.New("token validation failed")

	// Registration / login errors.
	ErrSessionExpired  = errors.New("session expired")
	ErrInvalidOTP      = errors.New("invalid otp")
	ErrInvalidPassword = errors.New("invalid password")

	// Collaborator failures.
	ErrMailDispatch = errors.New("mail dispatch failed")
	ErrUpload       = errors.New("upload failed")
)
