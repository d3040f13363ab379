// Package dto defines the request and response bodies of the journal endpoints.
package dto

import (
	"time"

	"journal_backend/internal/feature/journal/domain/entity"
)

// CreateEntryReq is the body of POST /journal.
type CreateEntryReq struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required,max=20000"`
}

// UpdateEntryReq is the body of PUT /journal/:id. Absent or empty fields are left unchanged.
type UpdateEntryReq struct {
	Title   *string `json:"title" binding:"omitempty,max=200"`
	Content *string `json:"content" binding:"omitempty,max=20000"`
}

// Patch converts the request into a domain patch.
func (r UpdateEntryReq) Patch() entity.EntryPatch {
	return entity.EntryPatch{Title: r.Title, Content: r.Content}
}

// EntryRes is a journal entry as returned to its owner.
type EntryRes struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEntryRes converts an entity.
func NewEntryRes(e *entity.JournalEntry) EntryRes {
	return EntryRes{ID: e.ID, Title: e.Title, Content: e.Content, CreatedAt: e.CreatedAt.UTC()}
}

// NewEntryList converts a slice of entities, never returning nil.
func NewEntryList(es []*entity.JournalEntry) []EntryRes {
	out := make([]EntryRes, 0, len(es))
	for _, e := range es {
		out = append(out, NewEntryRes(e))
	}
	return out
}

// ErrorRes is the error body of every journal endpoint.
type ErrorRes struct {
	Error string `json:"error"`
}
