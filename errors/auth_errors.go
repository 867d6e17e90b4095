// errors/auth_errors.go
package errors

import "errors"

var (
	// ErrNotLoggedIn is returned when an operation declares a required role
	// and the request carries no authenticated caller.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrForbidden is returned when the caller's role does not satisfy the
	// operation's required role.
	ErrForbidden = errors.New("not authorized")

	ErrInvalidToken      = errors.New("invalid session token")
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidCredential = errors.New("invalid account or password")
)
