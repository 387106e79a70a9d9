// Package common defines shared constants and sentinel errors used across
// PiVault server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Registration / validation errors.
	ErrorEmailExists  = errors.New("email already registered")
	ErrorInvalidInput = errors.New("invalid input")

	// Brute-force guard.
	ErrTooManyAttempts = errors.New("too many attempts")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Second-factor state errors.
	ErrTOTPRequired       = errors.New("totp code required")
	ErrInvalidTOTP        = errors.New("invalid totp code")
	ErrTOTPAlreadyEnabled = errors.New("totp already enabled")
	ErrTOTPNotSetUp       = errors.New("totp not set up")
	ErrTOTPNotEnabled     = errors.New("totp not enabled")
)
