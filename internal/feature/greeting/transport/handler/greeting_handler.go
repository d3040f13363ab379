// Package handler serves the greeting endpoint.
package handler

import (
	"context"
	"net/http"

	jwtmw "journal_backend/internal/platform/jwt"

	"github.com/gin-gonic/gin"
)

// Greeter builds the greeting for an authenticated principal.
type Greeter interface {
	Greet(ctx context.Context, username string) string
}

// GreetingHandler handles GET /user.
type GreetingHandler struct {
	uc Greeter
}

// NewGreetingHandler creates a GreetingHandler.
func NewGreetingHandler(uc Greeter) *GreetingHandler {
	return &GreetingHandler{uc: uc}
}

// Greet writes the greeting as plain text.
func (h *GreetingHandler) Greet(c *gin.Context) {
	username, ok := jwtmw.Username(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	c.String(http.StatusOK, h.uc.Greet(c.Request.Context(), username))
}
