// Package usecase implements ownership authorization, role management and the
// dual-store consistency rules of the journal feature.
package usecase

import (
	"context"

	"journal_backend/internal/feature/journal/domain/entity"
)

// PrincipalStore abstracts the persistence of principals.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type PrincipalStore interface {
	// Create persists a new principal. If p.ID is empty a new id is generated.
	// It returns domain.ErrUsernameTaken when the username already exists.
	Create(ctx context.Context, p *entity.Principal) error
	// FindByID returns domain.ErrPrincipalNotFound when no principal has the id.
	FindByID(ctx context.Context, id string) (*entity.Principal, error)
	// FindByUsername returns domain.ErrPrincipalNotFound when no principal has the username.
	FindByUsername(ctx context.Context, username string) (*entity.Principal, error)
	// List returns every principal ordered by username.
	List(ctx context.Context) ([]*entity.Principal, error)
	// Save writes roles and owned entries if the stored version still equals p.Version,
	// then increments p.Version. A lost race yields domain.ErrConcurrentUpdate.
	Save(ctx context.Context, p *entity.Principal) error
	// Delete removes the principal if the stored version still equals p.Version.
	// It returns domain.ErrPrincipalNotFound if absent and domain.ErrConcurrentUpdate
	// if the version moved.
	Delete(ctx context.Context, p *entity.Principal) error
}

// EntryStore abstracts the persistence of journal entries, independent of owners.
type EntryStore interface {
	// Create persists a new entry. If e.ID is empty a new id is generated.
	Create(ctx context.Context, e *entity.JournalEntry) error
	// FindByID returns domain.ErrEntryNotFound when the entry does not exist.
	FindByID(ctx context.Context, id string) (*entity.JournalEntry, error)
	// FindByIDs returns the entries that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*entity.JournalEntry, error)
	// List returns every entry.
	List(ctx context.Context) ([]*entity.JournalEntry, error)
	// Update writes title and content. CreatedAt is never written.
	Update(ctx context.Context, e *entity.JournalEntry) error
	// Delete removes the entry. It returns domain.ErrEntryNotFound if absent.
	Delete(ctx context.Context, id string) error
}

// Stores bundles both stores bound to the same connection or transaction.
type Stores interface {
	Principals() PrincipalStore
	Entries() EntryStore
}

// UnitOfWork runs a function against both stores as one logical transaction.
// Either every mutation made through the supplied Stores is applied, or none is.
type UnitOfWork interface {
	// Stores returns non-transactional stores for reads.
	Stores() Stores
	// Do runs fn inside one unit. A non-nil return from fn undoes its mutations.
	Do(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}

// CredentialHasher produces credential hashes. Only the hash ever reaches a store.
type CredentialHasher interface {
	Hash(password string) (string, error)
}
