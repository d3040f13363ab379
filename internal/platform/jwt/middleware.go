package jwtmw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"journal_backend/internal/feature/journal/domain"
	"journal_backend/internal/feature/journal/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextUsername is the gin context key holding the authenticated username.
const ContextUsername = "username"

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and restricts access to authenticated users only.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		// 2. Load secret key from environment variable
		secret := os.Getenv(EnvKeyJWTSecret)
		if secret == "" {
			// Server misconfiguration (JWT_SECRET not set)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured"})
			return
		}

		// 3. Parse and verify JWT signature
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			// Check signing algorithm (only HMAC allowed)
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// 4. The subject is the username; a token without one identifies nobody.
		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ContextUsername, sub)

		c.Next()
	}
}

// Username returns the username stored by AuthRequired.
func Username(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextUsername)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// RoleChecker reports whether a principal currently holds a role.
type RoleChecker interface {
	HasRole(ctx context.Context, username string, role entity.Role) (bool, error)
}

// RequireRole returns a middleware that lets the request through only when the
// authenticated principal holds role. It must run after AuthRequired.
func RequireRole(checker RoleChecker, role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := Username(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		has, err := checker.HasRole(c.Request.Context(), username, role)
		switch {
		case errors.Is(err, domain.ErrPrincipalNotFound):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		case err != nil:
			slog.Error("role check failed", "username", username, "role", role, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		case !has:
			slog.Warn("role required", "username", username, "role", role, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
