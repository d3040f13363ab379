// Package handler provides the HTTP handlers for signup and login.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authdomain "journal_backend/internal/feature/auth/domain"
	"journal_backend/internal/feature/auth/transport/http/dto"
	"journal_backend/internal/feature/journal/domain"
	"journal_backend/internal/feature/journal/domain/entity"
)

// AuthUsecase defines signup and login.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type AuthUsecase interface {
	Signup(ctx context.Context, username, password string) (*entity.Principal, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// AuthHandler handles the authentication endpoints.
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup handles POST /signup.
//   - 400 on validation failure
//   - 409 when the username is taken
//   - 201 with the new principal otherwise
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return
	}
	p, err := h.auth.Signup(c.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, domain.ErrUsernameTaken):
		slog.Warn("signup rejected", "username", req.Username, "remote_addr", c.ClientIP())
		c.JSON(http.StatusConflict, dto.ErrorRes{Error: "username already exists"})
		return
	case errors.Is(err, authdomain.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return
	case err != nil:
		slog.Error("signup failed", "username", req.Username, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal server error"})
		return
	}
	slog.Info("principal signed up", "username", p.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.SignupRes{ID: p.ID, Username: p.Username, Roles: p.Roles.Strings()})
}

// Login handles POST /login.
//   - 400 on validation failure
//   - 401 on bad credentials, without saying which part was wrong
//   - 200 with a bearer token otherwise
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return
	}
	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, authdomain.ErrInvalidCredentials):
		slog.Warn("login failed", "username", req.Username, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: "invalid username or password"})
		return
	case err != nil:
		slog.Error("login error", "username", req.Username, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal server error"})
		return
	}
	slog.Info("principal logged in", "username", req.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.TokenRes{Token: token})
}
