package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"journal_backend/internal/feature/journal/domain"
	"journal_backend/internal/feature/journal/transport/http/dto"
)

// statusOf maps an outcome onto an HTTP status. Forbidden answers 404 so that
// callers cannot probe for entries owned by someone else.
func statusOf(o domain.Outcome) int {
	switch o {
	case domain.OutcomeOK:
		return http.StatusOK
	case domain.OutcomeNotFound, domain.OutcomeForbidden:
		return http.StatusNotFound
	case domain.OutcomeConflict:
		return http.StatusConflict
	case domain.OutcomeInvalid:
		return http.StatusBadRequest
	case domain.OutcomeFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body for err. Failures are logged with detail and
// answered with a generic message.
func respondError(c *gin.Context, op, username string, err error) {
	o := domain.OutcomeOf(err)
	status := statusOf(o)
	switch o {
	case domain.OutcomeFailed:
		slog.Error("journal operation failed", "op", op, "username", username, "error", err)
		c.JSON(status, dto.ErrorRes{Error: "internal server error"})
	case domain.OutcomeNotFound, domain.OutcomeForbidden:
		slog.Warn("journal request rejected", "op", op, "username", username, "outcome", o.String(), "remote_addr", c.ClientIP())
		c.JSON(status, dto.ErrorRes{Error: "not found"})
	default:
		slog.Warn("journal request rejected", "op", op, "username", username, "outcome", o.String(), "remote_addr", c.ClientIP())
		c.JSON(status, dto.ErrorRes{Error: err.Error()})
	}
}
