// Package usecase implements signup and login for journal principals.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	authdomain "journal_backend/internal/feature/auth/domain"
	"journal_backend/internal/feature/journal/domain"
	"journal_backend/internal/feature/journal/domain/entity"
)

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 8

// PrincipalRepository is the slice of the principal store that auth needs.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type PrincipalRepository interface {
	// Create returns domain.ErrUsernameTaken if the username exists.
	Create(ctx context.Context, p *entity.Principal) error
	// FindByUsername returns domain.ErrPrincipalNotFound if absent.
	FindByUsername(ctx context.Context, username string) (*entity.Principal, error)
}

// CredentialVerifier hashes new passwords and checks presented ones.
// Compare must run in constant time when hash is empty.
type CredentialVerifier interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenGenerator issues a signed token whose subject is the username.
type TokenGenerator interface {
	GenerateToken(username string, roles []string) (string, error)
}

type authUsecase struct {
	principals PrincipalRepository
	verifier   CredentialVerifier
	tokens     TokenGenerator
}

// NewAuthUsecase creates an authUsecase.
func NewAuthUsecase(principals PrincipalRepository, verifier CredentialVerifier, tokens TokenGenerator) *authUsecase {
	return &authUsecase{
		principals: principals,
		verifier:   verifier,
		tokens:     tokens,
	}
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters long", authdomain.ErrWeakPassword, minPasswordLength)
	}
	return nil
}

// Signup registers a principal holding only USER.
// A duplicate username yields domain.ErrUsernameTaken.
func (u *authUsecase) Signup(ctx context.Context, username, password string) (*entity.Principal, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := u.verifier.Hash(password)
	if err != nil {
		return nil, err
	}
	p := entity.NewPrincipal(username, hash)
	if err := u.principals.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Login verifies the credential and returns a signed token.
// The hash comparison runs even for unknown usernames.
func (u *authUsecase) Login(ctx context.Context, username, password string) (string, error) {
	p, err := u.principals.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrPrincipalNotFound) {
		return "", err
	}

	hash := ""
	if p != nil {
		hash = p.CredentialHash
	}
	if cmpErr := u.verifier.Compare(hash, password); cmpErr != nil || p == nil {
		return "", authdomain.ErrInvalidCredentials
	}

	token, err := u.tokens.GenerateToken(p.Username, p.Roles.Strings())
	if err != nil {
		slog.Error("token generation failed", "username", p.Username, "error", err)
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
