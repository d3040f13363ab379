package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"journal_backend/internal/feature/journal/domain"
)

// ViolationKind names a referential-integrity violation.
type ViolationKind string

const (
	// ViolationDangling is an owned id with no entry record.
	ViolationDangling ViolationKind = "dangling_reference"
	// ViolationOrphan is an entry record no principal owns.
	ViolationOrphan ViolationKind = "orphan_entry"
	// ViolationShared is an entry owned by more than one principal.
	ViolationShared ViolationKind = "shared_entry"
)

// Violation is a single finding of a scan.
type Violation struct {
	Kind    ViolationKind `json:"kind"`
	EntryID string        `json:"entry_id"`
	// Owners lists the usernames referencing EntryID. Empty for orphans.
	Owners []string `json:"owners,omitempty"`
}

func (v Violation) key() string {
	return string(v.Kind) + "/" + v.EntryID
}

// IntegrityReport summarizes one scan.
type IntegrityReport struct {
	ScannedAt  time.Time   `json:"scanned_at"`
	Principals int         `json:"principals"`
	Entries    int         `json:"entries"`
	Violations []Violation `json:"violations"`
}

// Healthy reports whether the scan found no violations.
func (r *IntegrityReport) Healthy() bool {
	return len(r.Violations) == 0
}

// IntegrityScanner cross-checks both stores. It only reports; it never repairs.
type IntegrityScanner struct {
	stores Stores
	now    func() time.Time
}

// NewIntegrityScanner creates an IntegrityScanner reading from stores.
func NewIntegrityScanner(stores Stores) *IntegrityScanner {
	return &IntegrityScanner{stores: stores, now: time.Now}
}

// Scan reads both stores and returns the violations found. Reads are not isolated
// from concurrent writers, so a finding is only reported when a second pass sees it
// too. When violations remain the report is returned together with an error
// wrapping domain.ErrInconsistentState.
func (s *IntegrityScanner) Scan(ctx context.Context) (*IntegrityReport, error) {
	first, err := s.scanOnce(ctx)
	if err != nil {
		return nil, err
	}
	if first.Healthy() {
		return first, nil
	}

	second, err := s.scanOnce(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(first.Violations))
	for _, v := range first.Violations {
		seen[v.key()] = struct{}{}
	}
	confirmed := second.Violations[:0]
	for _, v := range second.Violations {
		if _, ok := seen[v.key()]; ok {
			confirmed = append(confirmed, v)
		}
	}
	second.Violations = confirmed
	if second.Healthy() {
		return second, nil
	}

	for _, v := range second.Violations {
		slog.Error("integrity violation",
			"event", "integrity_violation",
			"kind", v.Kind,
			"entry_id", v.EntryID,
			"owners", v.Owners,
		)
	}
	return second, fmt.Errorf("%w: %d violation(s)", domain.ErrInconsistentState, len(second.Violations))
}

func (s *IntegrityScanner) scanOnce(ctx context.Context) (*IntegrityReport, error) {
	principals, err := s.stores.Principals().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list principals: %w", err)
	}
	entries, err := s.stores.Entries().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	owners := make(map[string][]string)
	for _, p := range principals {
		for _, id := range p.OwnedEntryIDs {
			owners[id] = append(owners[id], p.Username)
		}
	}
	exists := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		exists[e.ID] = struct{}{}
	}

	report := &IntegrityReport{
		ScannedAt:  s.now().UTC(),
		Principals: len(principals),
		Entries:    len(entries),
		Violations: []Violation{},
	}
	for id, names := range owners {
		if _, ok := exists[id]; !ok {
			report.Violations = append(report.Violations, Violation{Kind: ViolationDangling, EntryID: id, Owners: names})
		}
		if len(names) > 1 {
			report.Violations = append(report.Violations, Violation{Kind: ViolationShared, EntryID: id, Owners: names})
		}
	}
	for id := range exists {
		if _, ok := owners[id]; !ok {
			report.Violations = append(report.Violations, Violation{Kind: ViolationOrphan, EntryID: id})
		}
	}
	sort.Slice(report.Violations, func(i, j int) bool {
		return report.Violations[i].key() < report.Violations[j].key()
	})
	return report, nil
}

// RunPeriodic scans every interval until ctx is done.
func (s *IntegrityScanner) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := s.Scan(ctx)
			if err != nil {
				slog.Warn("periodic integrity scan finished with errors", "error", err)
				continue
			}
			slog.Debug("periodic integrity scan clean", "principals", report.Principals, "entries", report.Entries)
		}
	}
}
