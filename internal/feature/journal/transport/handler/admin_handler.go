package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"journal_backend/internal/feature/journal/domain"
	"journal_backend/internal/feature/journal/transport/http/dto"
	jwtmw "journal_backend/internal/platform/jwt"
)

// ListUsers handles GET /admin/users.
func (h *JournalHandler) ListUsers(c *gin.Context) {
	admin, _ := jwtmw.Username(c)
	ps, err := h.uc.ListPrincipals(c.Request.Context())
	if err != nil {
		respondError(c, "list users", admin, err)
		return
	}
	out := make([]dto.PrincipalRes, 0, len(ps))
	for _, p := range ps {
		out = append(out, dto.NewPrincipalRes(p))
	}
	c.JSON(http.StatusOK, out)
}

// GrantRole handles POST /admin/roles.
func (h *JournalHandler) GrantRole(c *gin.Context) {
	admin, _ := jwtmw.Username(c)
	var req dto.GrantRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("grant role validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return
	}
	p, err := h.uc.GrantRole(c.Request.Context(), req.Username, req.Role, req.Password)
	if err != nil {
		respondError(c, "grant role", admin, err)
		return
	}
	slog.Info("admin granted role", "admin", admin, "username", req.Username, "role", req.Role)
	c.JSON(http.StatusOK, dto.NewPrincipalRes(p))
}

// DeleteUser handles DELETE /admin/users/:username.
func (h *JournalHandler) DeleteUser(c *gin.Context) {
	admin, _ := jwtmw.Username(c)
	target := c.Param("username")
	if err := h.uc.DeleteUser(c.Request.Context(), target); err != nil {
		respondError(c, "admin delete user", admin, err)
		return
	}
	slog.Info("admin deleted principal", "admin", admin, "username", target)
	c.Status(http.StatusNoContent)
}

// Integrity handles GET /admin/integrity. Violations are part of a successful
// report; only a scan that could not complete answers 500.
func (h *JournalHandler) Integrity(c *gin.Context) {
	admin, _ := jwtmw.Username(c)
	report, err := h.uc.CheckIntegrity(c.Request.Context())
	if err != nil && (report == nil || !errors.Is(err, domain.ErrInconsistentState)) {
		respondError(c, "integrity scan", admin, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"healthy": report.Healthy(), "report": report})
}
