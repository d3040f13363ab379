package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"journal_backend/internal/feature/journal/domain"
	"journal_backend/internal/feature/journal/domain/entity"

	"github.com/sethvargo/go-retry"
)

// compensationRetries bounds how often an undo step re-applies itself after losing
// a compare-and-swap race with a concurrent writer.
const compensationRetries = 5

// errConcurrentChange is returned by an undo step that would overwrite a write it
// did not make.
var errConcurrentChange = errors.New("record changed by a concurrent writer")

// CompensatingUnitOfWork provides unit semantics over stores that only guarantee
// single-document atomicity. Every mutation made through the unit records an undo
// action; when the unit fails the actions are replayed in reverse order.
type CompensatingUnitOfWork struct {
	stores Stores
}

// Compile-time check to ensure CompensatingUnitOfWork implements UnitOfWork.
var _ UnitOfWork = (*CompensatingUnitOfWork)(nil)

// NewCompensatingUnitOfWork wraps stores.
func NewCompensatingUnitOfWork(stores Stores) *CompensatingUnitOfWork {
	return &CompensatingUnitOfWork{stores: stores}
}

// Stores returns the underlying stores.
func (u *CompensatingUnitOfWork) Stores() Stores {
	return u.stores
}

// Do runs fn against tracking stores. If fn fails or panics, recorded mutations are
// compensated. A failed compensation is reported as domain.ErrInconsistentState.
func (u *CompensatingUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, s Stores) error) (err error) {
	log := &undoLog{}
	tracked := &trackedStores{
		principals: &trackedPrincipals{inner: u.stores.Principals(), log: log},
		entries:    &trackedEntries{inner: u.stores.Entries(), log: log},
	}

	defer func() {
		if r := recover(); r != nil {
			if rbErr := log.rollback(context.WithoutCancel(ctx)); rbErr != nil {
				slog.Error("compensation after panic failed", "event", "integrity_violation", "error", rbErr)
			}
			panic(r)
		}
	}()

	if err := fn(ctx, tracked); err != nil {
		if rbErr := log.rollback(context.WithoutCancel(ctx)); rbErr != nil {
			slog.Error("compensation failed",
				"event", "integrity_violation",
				"error", rbErr,
				"cause", err,
			)
			return fmt.Errorf("%w: compensation failed: %w (cause: %w)", domain.ErrInconsistentState, rbErr, err)
		}
		return err
	}
	return nil
}

type undoLog struct {
	steps []func(ctx context.Context) error
}

func (l *undoLog) push(step func(ctx context.Context) error) {
	l.steps = append(l.steps, step)
}

// rollback runs every step even when one fails, newest first.
func (l *undoLog) rollback(ctx context.Context) error {
	var errs []error
	for i := len(l.steps) - 1; i >= 0; i-- {
		if err := l.steps[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	l.steps = nil
	return errors.Join(errs...)
}

type trackedStores struct {
	principals *trackedPrincipals
	entries    *trackedEntries
}

func (s *trackedStores) Principals() PrincipalStore { return s.principals }
func (s *trackedStores) Entries() EntryStore        { return s.entries }

type trackedPrincipals struct {
	inner PrincipalStore
	log   *undoLog
}

func (t *trackedPrincipals) Create(ctx context.Context, p *entity.Principal) error {
	if err := t.inner.Create(ctx, p); err != nil {
		return err
	}
	id := p.ID
	t.log.push(func(ctx context.Context) error {
		cur, err := t.inner.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("undo create principal %s: %w", id, err)
		}
		if len(cur.OwnedEntryIDs) > 0 {
			// entries were attached by another request; deleting would orphan them
			return fmt.Errorf("undo create principal %s: %w", id, errConcurrentChange)
		}
		if err := t.inner.Delete(ctx, cur); err != nil {
			return fmt.Errorf("undo create principal %s: %w", id, err)
		}
		return nil
	})
	return nil
}

func (t *trackedPrincipals) FindByID(ctx context.Context, id string) (*entity.Principal, error) {
	return t.inner.FindByID(ctx, id)
}

func (t *trackedPrincipals) FindByUsername(ctx context.Context, username string) (*entity.Principal, error) {
	return t.inner.FindByUsername(ctx, username)
}

func (t *trackedPrincipals) List(ctx context.Context) ([]*entity.Principal, error) {
	return t.inner.List(ctx)
}

// Save records the inverse of the change it makes: ids it appended are removed,
// ids it removed are put back at their former position and roles it granted are
// revoked. The inverse is applied to the principal as stored at undo time so that
// concurrent writes survive the compensation.
func (t *trackedPrincipals) Save(ctx context.Context, p *entity.Principal) error {
	prior, err := t.inner.FindByID(ctx, p.ID)
	if err != nil {
		return err
	}
	change := diffPrincipal(prior, p)
	if err := t.inner.Save(ctx, p); err != nil {
		return err
	}
	t.log.push(func(ctx context.Context) error {
		if err := t.revert(ctx, prior.ID, change); err != nil {
			return fmt.Errorf("undo save principal %s: %w", prior.ID, err)
		}
		return nil
	})
	return nil
}

func (t *trackedPrincipals) revert(ctx context.Context, id string, change principalChange) error {
	backoff := retry.WithMaxRetries(compensationRetries, retry.NewExponential(5*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		cur, err := t.inner.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !change.revert(cur) {
			return nil
		}
		err = t.inner.Save(ctx, cur)
		if errors.Is(err, domain.ErrConcurrentUpdate) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (t *trackedPrincipals) Delete(ctx context.Context, p *entity.Principal) error {
	prior, err := t.inner.FindByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if err := t.inner.Delete(ctx, p); err != nil {
		return err
	}
	t.log.push(func(ctx context.Context) error {
		if err := t.inner.Create(ctx, prior.Clone()); err != nil {
			return fmt.Errorf("undo delete principal %s: %w", prior.ID, err)
		}
		return nil
	})
	return nil
}

type trackedEntries struct {
	inner EntryStore
	log   *undoLog
}

func (t *trackedEntries) Create(ctx context.Context, e *entity.JournalEntry) error {
	if err := t.inner.Create(ctx, e); err != nil {
		return err
	}
	id := e.ID
	t.log.push(func(ctx context.Context) error {
		if err := t.inner.Delete(ctx, id); err != nil {
			return fmt.Errorf("undo create entry %s: %w", id, err)
		}
		return nil
	})
	return nil
}

func (t *trackedEntries) FindByID(ctx context.Context, id string) (*entity.JournalEntry, error) {
	return t.inner.FindByID(ctx, id)
}

func (t *trackedEntries) FindByIDs(ctx context.Context, ids []string) ([]*entity.JournalEntry, error) {
	return t.inner.FindByIDs(ctx, ids)
}

func (t *trackedEntries) List(ctx context.Context) ([]*entity.JournalEntry, error) {
	return t.inner.List(ctx)
}

// Update restores the prior title and content only while the entry still holds
// what this unit wrote; otherwise the compensation fails.
func (t *trackedEntries) Update(ctx context.Context, e *entity.JournalEntry) error {
	prior, err := t.inner.FindByID(ctx, e.ID)
	if err != nil {
		return err
	}
	written := e.Clone()
	if err := t.inner.Update(ctx, e); err != nil {
		return err
	}
	t.log.push(func(ctx context.Context) error {
		cur, err := t.inner.FindByID(ctx, prior.ID)
		if err != nil {
			return fmt.Errorf("undo update entry %s: %w", prior.ID, err)
		}
		if cur.Title != written.Title || cur.Content != written.Content {
			return fmt.Errorf("undo update entry %s: %w", prior.ID, errConcurrentChange)
		}
		if err := t.inner.Update(ctx, prior); err != nil {
			return fmt.Errorf("undo update entry %s: %w", prior.ID, err)
		}
		return nil
	})
	return nil
}

func (t *trackedEntries) Delete(ctx context.Context, id string) error {
	prior, err := t.inner.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := t.inner.Delete(ctx, id); err != nil {
		return err
	}
	t.log.push(func(ctx context.Context) error {
		if err := t.inner.Create(ctx, prior.Clone()); err != nil {
			return fmt.Errorf("undo delete entry %s: %w", prior.ID, err)
		}
		return nil
	})
	return nil
}

// principalChange is what one Save did to a principal.
type principalChange struct {
	added   []string
	removed []removedEntry
	granted []entity.Role
}

type removedEntry struct {
	id    string
	index int
}

func diffPrincipal(before, after *entity.Principal) principalChange {
	var c principalChange
	for _, id := range after.OwnedEntryIDs {
		if !before.Owns(id) {
			c.added = append(c.added, id)
		}
	}
	for i, id := range before.OwnedEntryIDs {
		if !after.Owns(id) {
			c.removed = append(c.removed, removedEntry{id: id, index: i})
		}
	}
	for _, r := range after.Roles {
		if !before.HasRole(r) {
			c.granted = append(c.granted, r)
		}
	}
	return c
}

// revert applies the inverse of c to p and reports whether p changed.
func (c principalChange) revert(p *entity.Principal) bool {
	changed := false
	for _, id := range c.added {
		if p.RemoveEntry(id) {
			changed = true
		}
	}
	for _, r := range c.removed {
		if p.Owns(r.id) {
			continue
		}
		i := min(r.index, len(p.OwnedEntryIDs))
		p.OwnedEntryIDs = slices.Insert(p.OwnedEntryIDs, i, r.id)
		changed = true
	}
	if len(c.granted) > 0 {
		kept := make(entity.RoleSet, 0, len(p.Roles))
		for _, r := range p.Roles {
			if r != entity.RoleUser && slices.Contains(c.granted, r) {
				changed = true
				continue
			}
			kept = append(kept, r)
		}
		p.Roles = kept
	}
	return changed
}
