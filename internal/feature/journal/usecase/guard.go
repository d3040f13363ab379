package usecase

import (
	"context"
	"errors"
	"fmt"

	"journal_backend/internal/feature/journal/domain"
	"journal_backend/internal/feature/journal/domain/entity"
)

// AuthorizationGuard decides whether a resolved principal may act on an entry.
type AuthorizationGuard struct{}

// NewAuthorizationGuard creates an AuthorizationGuard.
func NewAuthorizationGuard() *AuthorizationGuard {
	return &AuthorizationGuard{}
}

// CanAccess returns true iff entryID is in the principal's owned-entry set.
func (g *AuthorizationGuard) CanAccess(p *entity.Principal, entryID string) bool {
	if p == nil || entryID == "" {
		return false
	}
	return p.Owns(entryID)
}

// Authorize runs CanAccess and turns a denial into a typed outcome:
// domain.ErrForbidden when the entry exists in the entry store, domain.ErrEntryNotFound
// when it exists nowhere. Every single-entry operation calls this before touching data.
func (g *AuthorizationGuard) Authorize(ctx context.Context, entries EntryStore, p *entity.Principal, entryID string) error {
	if g.CanAccess(p, entryID) {
		return nil
	}
	if entryID == "" {
		return domain.ErrEntryNotFound
	}
	_, err := entries.FindByID(ctx, entryID)
	switch {
	case err == nil:
		return domain.ErrForbidden
	case errors.Is(err, domain.ErrEntryNotFound):
		return domain.ErrEntryNotFound
	default:
		return fmt.Errorf("authorize entry %s: %w", entryID, err)
	}
}
