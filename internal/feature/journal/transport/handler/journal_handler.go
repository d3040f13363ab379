// Package handler provides the HTTP handlers of the journal feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"journal_backend/internal/feature/journal/domain/entity"
	"journal_backend/internal/feature/journal/transport/http/dto"
	"journal_backend/internal/feature/journal/usecase"
	jwtmw "journal_backend/internal/platform/jwt"
)

// JournalUsecase is the set of journal operations the handlers call.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type JournalUsecase interface {
	CreateEntry(ctx context.Context, username, title, content string) (*entity.JournalEntry, error)
	ListEntries(ctx context.Context, username string) ([]*entity.JournalEntry, error)
	GetEntry(ctx context.Context, username, entryID string) (*entity.JournalEntry, error)
	UpdateEntry(ctx context.Context, username, entryID string, patch entity.EntryPatch) (*entity.JournalEntry, error)
	DeleteEntry(ctx context.Context, username, entryID string) error
	DeleteUser(ctx context.Context, username string) error
	GrantRole(ctx context.Context, username, role, password string) (*entity.Principal, error)
	ListPrincipals(ctx context.Context) ([]*entity.Principal, error)
	CheckIntegrity(ctx context.Context) (*usecase.IntegrityReport, error)
}

// JournalHandler serves the owner-scoped journal routes and the admin routes.
type JournalHandler struct {
	uc JournalUsecase
}

// NewJournalHandler creates a JournalHandler.
func NewJournalHandler(uc JournalUsecase) *JournalHandler {
	return &JournalHandler{uc: uc}
}

// caller returns the authenticated username or answers 401.
func caller(c *gin.Context) (string, bool) {
	username, ok := jwtmw.Username(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: "unauthenticated"})
	}
	return username, ok
}

// ListEntries handles GET /journal.
func (h *JournalHandler) ListEntries(c *gin.Context) {
	username, ok := caller(c)
	if !ok {
		return
	}
	entries, err := h.uc.ListEntries(c.Request.Context(), username)
	if err != nil {
		respondError(c, "list entries", username, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewEntryList(entries))
}

// CreateEntry handles POST /journal.
func (h *JournalHandler) CreateEntry(c *gin.Context) {
	username, ok := caller(c)
	if !ok {
		return
	}
	var req dto.CreateEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create entry validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return
	}
	e, err := h.uc.CreateEntry(c.Request.Context(), username, req.Title, req.Content)
	if err != nil {
		respondError(c, "create entry", username, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewEntryRes(e))
}

// GetEntry handles GET /journal/:id.
func (h *JournalHandler) GetEntry(c *gin.Context) {
	username, ok := caller(c)
	if !ok {
		return
	}
	e, err := h.uc.GetEntry(c.Request.Context(), username, c.Param("id"))
	if err != nil {
		respondError(c, "get entry", username, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewEntryRes(e))
}

// UpdateEntry handles PUT /journal/:id.
func (h *JournalHandler) UpdateEntry(c *gin.Context) {
	username, ok := caller(c)
	if !ok {
		return
	}
	var req dto.UpdateEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update entry validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return
	}
	e, err := h.uc.UpdateEntry(c.Request.Context(), username, c.Param("id"), req.Patch())
	if err != nil {
		respondError(c, "update entry", username, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewEntryRes(e))
}

// DeleteEntry handles DELETE /journal/:id.
func (h *JournalHandler) DeleteEntry(c *gin.Context) {
	username, ok := caller(c)
	if !ok {
		return
	}
	if err := h.uc.DeleteEntry(c.Request.Context(), username, c.Param("id")); err != nil {
		respondError(c, "delete entry", username, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteSelf handles DELETE /user: the caller deletes their own account and entries.
func (h *JournalHandler) DeleteSelf(c *gin.Context) {
	username, ok := caller(c)
	if !ok {
		return
	}
	if err := h.uc.DeleteUser(c.Request.Context(), username); err != nil {
		respondError(c, "delete user", username, err)
		return
	}
	slog.Info("principal deleted own account", "username", username)
	c.Status(http.StatusNoContent)
}
