// Package router builds the gin engine and its routes.
package router

import (
	"github.com/gin-gonic/gin"

	authhandler "journal_backend/internal/feature/auth/transport/handler"
	greetinghandler "journal_backend/internal/feature/greeting/transport/handler"
	"journal_backend/internal/feature/journal/domain/entity"
	journalhandler "journal_backend/internal/feature/journal/transport/handler"
	"journal_backend/internal/platform/http/handler"
	jwtmw "journal_backend/internal/platform/jwt"
)

// Handlers groups every handler the router mounts.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *authhandler.AuthHandler
	Journal  *journalhandler.JournalHandler
	Greeting *greetinghandler.GreetingHandler
}

// NewRouter mounts the public, authenticated and admin routes. roles is consulted
// on every admin request so that revoked roles take effect immediately.
func NewRouter(h Handlers, roles jwtmw.RoleChecker) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// public
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.GET("/readyz", h.Health.Ready)
	r.POST("/signup", h.Auth.Signup)
	r.POST("/login", h.Auth.Login)

	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired())
	{
		auth.GET("/journal", h.Journal.ListEntries)
		auth.POST("/journal", h.Journal.CreateEntry)
		auth.GET("/journal/:id", h.Journal.GetEntry)
		auth.PUT("/journal/:id", h.Journal.UpdateEntry)
		auth.DELETE("/journal/:id", h.Journal.DeleteEntry)
		auth.GET("/user", h.Greeting.Greet)
		auth.DELETE("/user", h.Journal.DeleteSelf)
	}

	admin := r.Group("/admin")
	admin.Use(jwtmw.AuthRequired(), jwtmw.RequireRole(roles, entity.RoleAdmin))
	{
		admin.GET("/users", h.Journal.ListUsers)
		admin.POST("/roles", h.Journal.GrantRole)
		admin.DELETE("/users/:username", h.Journal.DeleteUser)
		admin.GET("/integrity", h.Journal.Integrity)
	}

	return r
}
