package usecase

import (
	"context"
	"errors"
	"fmt"

	"journal_backend/internal/feature/journal/domain"
	"journal_backend/internal/feature/journal/domain/entity"
)

// JournalUsecase is the entry point used by the transport layer. Every method takes
// the caller's username as resolved by the authentication middleware.
type JournalUsecase struct {
	stores      Stores
	guard       *AuthorizationGuard
	coordinator *Coordinator
	roles       *RoleManager
	scanner     *IntegrityScanner
}

// NewJournalUsecase creates a JournalUsecase. Reads go to stores, mutations to the
// coordinator and the role manager.
func NewJournalUsecase(stores Stores, guard *AuthorizationGuard, coordinator *Coordinator, roles *RoleManager, scanner *IntegrityScanner) *JournalUsecase {
	return &JournalUsecase{
		stores:      stores,
		guard:       guard,
		coordinator: coordinator,
		roles:       roles,
		scanner:     scanner,
	}
}

// CreateEntry creates an entry owned by username.
func (u *JournalUsecase) CreateEntry(ctx context.Context, username, title, content string) (*entity.JournalEntry, error) {
	return u.coordinator.Create(ctx, username, entity.EntryDraft{Title: title, Content: content})
}

// ListEntries returns the entries owned by username in creation order.
func (u *JournalUsecase) ListEntries(ctx context.Context, username string) ([]*entity.JournalEntry, error) {
	p, err := u.stores.Principals().FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(p.OwnedEntryIDs) == 0 {
		return []*entity.JournalEntry{}, nil
	}
	found, err := u.stores.Entries().FindByIDs(ctx, p.OwnedEntryIDs)
	if err != nil {
		return nil, fmt.Errorf("load entries of %s: %w", username, err)
	}
	byID := make(map[string]*entity.JournalEntry, len(found))
	for _, e := range found {
		byID[e.ID] = e
	}
	var cur *entity.Principal
	out := make([]*entity.JournalEntry, 0, len(p.OwnedEntryIDs))
	for _, id := range p.OwnedEntryIDs {
		e, ok := byID[id]
		if ok {
			out = append(out, e)
			continue
		}
		// the entry may have been deleted after the principal was read
		if cur == nil {
			cur, err = u.stores.Principals().FindByUsername(ctx, username)
			if errors.Is(err, domain.ErrPrincipalNotFound) {
				return []*entity.JournalEntry{}, nil
			}
			if err != nil {
				return nil, err
			}
		}
		if cur.Owns(id) {
			return nil, inconsistency("list entries", username, id, "owned entry missing from entry store")
		}
	}
	return out, nil
}

// GetEntry returns a single owned entry.
func (u *JournalUsecase) GetEntry(ctx context.Context, username, entryID string) (*entity.JournalEntry, error) {
	p, err := u.stores.Principals().FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := u.guard.Authorize(ctx, u.stores.Entries(), p, entryID); err != nil {
		return nil, err
	}
	e, err := u.stores.Entries().FindByID(ctx, entryID)
	if errors.Is(err, domain.ErrEntryNotFound) {
		// deleted between the principal read and now
		if cur, ferr := u.stores.Principals().FindByUsername(ctx, username); ferr == nil && !cur.Owns(entryID) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, inconsistency("get entry", username, entryID, "owned entry missing from entry store")
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateEntry applies patch to an owned entry.
func (u *JournalUsecase) UpdateEntry(ctx context.Context, username, entryID string, patch entity.EntryPatch) (*entity.JournalEntry, error) {
	return u.coordinator.Update(ctx, username, entryID, patch)
}

// DeleteEntry deletes an owned entry.
func (u *JournalUsecase) DeleteEntry(ctx context.Context, username, entryID string) error {
	return u.coordinator.Delete(ctx, username, entryID)
}

// DeleteUser deletes the principal and every entry it owns.
func (u *JournalUsecase) DeleteUser(ctx context.Context, username string) error {
	return u.coordinator.DeleteUser(ctx, username)
}

// GrantRole parses role and grants it to username, creating the principal from
// password when it does not exist.
func (u *JournalUsecase) GrantRole(ctx context.Context, username, role, password string) (*entity.Principal, error) {
	r, err := entity.ParseRole(role)
	if err != nil {
		return nil, err
	}
	return u.roles.GrantRole(ctx, username, r, entity.PrincipalSeed{Password: password})
}

// ListPrincipals returns every principal ordered by username.
func (u *JournalUsecase) ListPrincipals(ctx context.Context) ([]*entity.Principal, error) {
	return u.stores.Principals().List(ctx)
}

// HasRole reports whether username currently holds role.
func (u *JournalUsecase) HasRole(ctx context.Context, username string, role entity.Role) (bool, error) {
	p, err := u.stores.Principals().FindByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return p.HasRole(role), nil
}

// CheckIntegrity runs one integrity scan.
func (u *JournalUsecase) CheckIntegrity(ctx context.Context) (*IntegrityReport, error) {
	return u.scanner.Scan(ctx)
}
