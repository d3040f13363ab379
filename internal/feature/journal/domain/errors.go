// Package domain defines domain-level errors and outcomes for the journal feature.
package domain

import "errors"

// Expected outcomes. These are returned to callers as ordinary results.
var (
	// ErrPrincipalNotFound indicates that no principal matches the given username or id.
	ErrPrincipalNotFound = errors.New("principal not found")

	// ErrEntryNotFound indicates that the entry exists neither in the entry store
	// nor in the caller's owned-entry set.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrForbidden indicates that the entry exists but belongs to another principal.
	ErrForbidden = errors.New("entry is not owned by principal")

	// ErrUsernameTaken is returned when creating a principal whose username already exists.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrInvalidRole is returned for role tags outside the closed role set.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidCredential is returned when seed credentials cannot be hashed.
	ErrInvalidCredential = errors.New("invalid credential")
)

// Operation failures. Persisted state is unchanged when these are returned.
var (
	// ErrInconsistentState reports a referential-integrity violation detected at
	// runtime, such as an owned id with no matching entry record. It is never repaired
	// automatically.
	ErrInconsistentState = errors.New("inconsistent state")

	// ErrTransactionAborted reports that a dual-store mutation could not be committed.
	ErrTransactionAborted = errors.New("transaction aborted")

	// ErrConcurrentUpdate is returned by stores when a compare-and-swap write loses
	// against a concurrent writer.
	ErrConcurrentUpdate = errors.New("concurrent update")
)
