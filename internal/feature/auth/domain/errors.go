// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

var (
	// ErrInvalidCredentials is returned by login for an unknown username or a wrong password.
	// The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrWeakPassword is returned by signup when the password does not meet the length policy.
	ErrWeakPassword = errors.New("password too weak")
)
