package entity

import "time"

// JournalEntry is a single journal record. It carries no owner field: ownership
// lives in Principal.OwnedEntryIDs.
type JournalEntry struct {
	ID        string
	Title     string
	Content   string
	CreatedAt time.Time // set once at creation, never mutated
}

// Clone returns a copy of the entry.
func (e *JournalEntry) Clone() *JournalEntry {
	c := *e
	return &c
}

// EntryDraft is the caller-supplied content of a new entry.
type EntryDraft struct {
	Title   string
	Content string
}

// EntryPatch describes a partial update. A nil or empty field leaves the stored value unchanged.
type EntryPatch struct {
	Title   *string
	Content *string
}

// Apply writes the non-empty fields of the patch onto e and reports whether anything changed.
func (p EntryPatch) Apply(e *JournalEntry) bool {
	changed := false
	if p.Title != nil && *p.Title != "" && *p.Title != e.Title {
		e.Title = *p.Title
		changed = true
	}
	if p.Content != nil && *p.Content != "" && *p.Content != e.Content {
		e.Content = *p.Content
		changed = true
	}
	return changed
}
