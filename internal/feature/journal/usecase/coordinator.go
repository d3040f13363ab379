package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"journal_backend/internal/feature/journal/domain"
	"journal_backend/internal/feature/journal/domain/entity"
)

// Coordinator performs every mutation that spans the principal and entry stores.
// Each operation reloads the caller's principal inside the unit, so ownership checks
// and writes see the same snapshot.
type Coordinator struct {
	runner unitRunner
	guard  *AuthorizationGuard
	now    func() time.Time
}

// CoordinatorOption customizes a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithClock overrides the clock used for CreatedAt.
func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) { c.now = now }
}

// WithRetryPolicy overrides DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) CoordinatorOption {
	return func(c *Coordinator) { c.runner = newUnitRunner(c.runner.uow, p) }
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(uow UnitOfWork, guard *AuthorizationGuard, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		runner: newUnitRunner(uow, DefaultRetryPolicy),
		guard:  guard,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create inserts a new entry and appends its id to the owner's entry set.
func (c *Coordinator) Create(ctx context.Context, username string, draft entity.EntryDraft) (*entity.JournalEntry, error) {
	var created *entity.JournalEntry
	err := c.runner.run(ctx, "create entry", func(ctx context.Context, s Stores) error {
		created = nil
		p, err := s.Principals().FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		e := &entity.JournalEntry{
			Title:     draft.Title,
			Content:   draft.Content,
			CreatedAt: c.now().UTC().Truncate(time.Microsecond),
		}
		if err := s.Entries().Create(ctx, e); err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
		p.AddEntry(e.ID)
		if err := s.Principals().Save(ctx, p); err != nil {
			return fmt.Errorf("append entry %s to %s: %w", e.ID, username, err)
		}
		created = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("journal entry created", "username", username, "entry_id", created.ID)
	return created, nil
}

// Update applies patch to an owned entry. Empty fields keep their stored value and
// CreatedAt never changes.
func (c *Coordinator) Update(ctx context.Context, username, entryID string, patch entity.EntryPatch) (*entity.JournalEntry, error) {
	var updated *entity.JournalEntry
	err := c.runner.run(ctx, "update entry", func(ctx context.Context, s Stores) error {
		updated = nil
		p, err := s.Principals().FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if err := c.guard.Authorize(ctx, s.Entries(), p, entryID); err != nil {
			return err
		}
		e, err := s.Entries().FindByID(ctx, entryID)
		if errors.Is(err, domain.ErrEntryNotFound) {
			return inconsistency("update entry", username, entryID, "owned entry missing from entry store")
		}
		if err != nil {
			return err
		}
		if patch.Apply(e) {
			if err := s.Entries().Update(ctx, e); err != nil {
				return fmt.Errorf("update entry %s: %w", entryID, err)
			}
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an owned entry from both the owner's entry set and the entry store.
func (c *Coordinator) Delete(ctx context.Context, username, entryID string) error {
	err := c.runner.run(ctx, "delete entry", func(ctx context.Context, s Stores) error {
		p, err := s.Principals().FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if err := c.guard.Authorize(ctx, s.Entries(), p, entryID); err != nil {
			return err
		}
		p.RemoveEntry(entryID)
		if err := s.Principals().Save(ctx, p); err != nil {
			return fmt.Errorf("remove entry %s from %s: %w", entryID, username, err)
		}
		err = s.Entries().Delete(ctx, entryID)
		if errors.Is(err, domain.ErrEntryNotFound) {
			return inconsistency("delete entry", username, entryID, "owned entry missing from entry store")
		}
		return err
	})
	if err != nil {
		return err
	}
	slog.Info("journal entry deleted", "username", username, "entry_id", entryID)
	return nil
}

// DeleteUser removes every entry the principal owns and then the principal itself.
func (c *Coordinator) DeleteUser(ctx context.Context, username string) error {
	removed := 0
	err := c.runner.run(ctx, "delete user", func(ctx context.Context, s Stores) error {
		removed = 0
		p, err := s.Principals().FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		for _, id := range p.OwnedEntryIDs {
			err := s.Entries().Delete(ctx, id)
			if errors.Is(err, domain.ErrEntryNotFound) {
				return inconsistency("delete user", username, id, "owned entry missing from entry store")
			}
			if err != nil {
				return fmt.Errorf("delete entry %s: %w", id, err)
			}
			removed++
		}
		if err := s.Principals().Delete(ctx, p); err != nil {
			return fmt.Errorf("delete principal %s: %w", username, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.Info("principal deleted", "username", username, "entries_removed", removed)
	return nil
}
