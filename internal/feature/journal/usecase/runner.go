package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"journal_backend/internal/feature/journal/domain"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy controls how often a unit that lost a compare-and-swap race is re-run.
type RetryPolicy struct {
	MaxRetries uint64
	BaseDelay  time.Duration
}

// DefaultRetryPolicy re-runs a conflicting unit up to three times with exponential backoff.
var DefaultRetryPolicy = RetryPolicy{MaxRetries: 3, BaseDelay: 10 * time.Millisecond}

// unitRunner executes closures through a UnitOfWork and normalizes their errors.
type unitRunner struct {
	uow    UnitOfWork
	policy RetryPolicy
}

func newUnitRunner(uow UnitOfWork, policy RetryPolicy) unitRunner {
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = DefaultRetryPolicy.BaseDelay
	}
	return unitRunner{uow: uow, policy: policy}
}

// run executes fn as one unit. Units that fail with domain.ErrConcurrentUpdate are
// re-run from scratch, so fn must not keep state between attempts.
//
// The returned error is nil, an expected outcome, domain.ErrInconsistentState, or
// domain.ErrTransactionAborted wrapping the underlying cause.
func (r unitRunner) run(ctx context.Context, op string, fn func(ctx context.Context, s Stores) error) error {
	backoff := retry.WithMaxRetries(r.policy.MaxRetries, retry.NewExponential(r.policy.BaseDelay))
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := r.uow.Do(ctx, fn)
		if errors.Is(err, domain.ErrConcurrentUpdate) && !errors.Is(err, domain.ErrInconsistentState) {
			slog.Debug("unit lost a concurrent update, retrying", "op", op, "attempt", attempt)
			return retry.RetryableError(err)
		}
		return err
	})
	return classify(op, err)
}

func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case domain.IsExpected(err):
		return err
	case errors.Is(err, domain.ErrInconsistentState), errors.Is(err, domain.ErrTransactionAborted):
		return err
	default:
		slog.Warn("unit aborted", "op", op, "error", err)
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTransactionAborted, err)
	}
}

// inconsistency logs an integrity violation found while executing op and returns
// an error wrapping domain.ErrInconsistentState.
func inconsistency(op, username, entryID, detail string) error {
	slog.Error("integrity violation",
		"event", "integrity_violation",
		"op", op,
		"username", username,
		"entry_id", entryID,
		"detail", detail,
	)
	return fmt.Errorf("%w: %s: entry %s of %s: %s", domain.ErrInconsistentState, op, entryID, username, detail)
}
