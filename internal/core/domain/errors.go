package domain

import "errors"

var (
	// ErrSessionExpired is returned when the backend answers 401/403 and the
	// session has been torn down centrally.
	ErrSessionExpired = errors.New("session expired")

	// ErrInvalidCredentials covers malformed or rejected login input.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotAuthenticated is returned by operations that need a session
	// before any request is made.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrUserExists is the mock backend's duplicate-account failure.
	ErrUserExists = errors.New("user already exists")

	// ErrOrderNotFound is the mock backend's unknown-order failure.
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidTransition rejects an order operation that does not apply
	// to the order's current status.
	ErrInvalidTransition = errors.New("invalid order status transition")
)
