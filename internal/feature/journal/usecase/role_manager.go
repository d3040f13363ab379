package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"journal_backend/internal/feature/journal/domain"
	"journal_backend/internal/feature/journal/domain/entity"
)

// RoleManager grants roles, creating the principal when it does not exist yet.
type RoleManager struct {
	runner unitRunner
	hasher CredentialHasher
}

// NewRoleManager creates a RoleManager.
func NewRoleManager(uow UnitOfWork, hasher CredentialHasher, policy RetryPolicy) *RoleManager {
	return &RoleManager{runner: newUnitRunner(uow, policy), hasher: hasher}
}

// GrantRole ensures the principal named username holds role.
//
//   - no principal: one is created with {USER, role} and the hashed seed password
//   - principal already holds role: nothing is written
//   - otherwise: role is added and the principal saved
//
// The returned principal reflects the stored state.
func (m *RoleManager) GrantRole(ctx context.Context, username string, role entity.Role, seed entity.PrincipalSeed) (*entity.Principal, error) {
	var (
		out     *entity.Principal
		created bool
		changed bool
	)
	err := m.runner.run(ctx, "grant role", func(ctx context.Context, s Stores) error {
		out, created, changed = nil, false, false
		p, err := s.Principals().FindByUsername(ctx, username)
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			p, err = m.newPrincipal(username, role, seed)
			if err != nil {
				return err
			}
			if err := s.Principals().Create(ctx, p); err != nil {
				if errors.Is(err, domain.ErrUsernameTaken) {
					// created concurrently; re-run against the stored principal
					return fmt.Errorf("%w: %w", domain.ErrConcurrentUpdate, err)
				}
				return err
			}
			out, created = p, true
			return nil
		}
		if err != nil {
			return err
		}
		if p.HasRole(role) {
			out = p
			return nil
		}
		p.Roles, _ = p.Roles.Add(role)
		if err := s.Principals().Save(ctx, p); err != nil {
			return err
		}
		out, changed = p, true
		return nil
	})
	if err != nil {
		return nil, err
	}
	switch {
	case created:
		slog.Info("principal created by role grant", "username", username, "role", role)
	case changed:
		slog.Info("role granted", "username", username, "role", role)
	}
	return out, nil
}

func (m *RoleManager) newPrincipal(username string, role entity.Role, seed entity.PrincipalSeed) (*entity.Principal, error) {
	if seed.Password == "" {
		return nil, fmt.Errorf("%w: password required to create %s", domain.ErrInvalidCredential, username)
	}
	hash, err := m.hasher.Hash(seed.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCredential, err)
	}
	return entity.NewPrincipal(username, hash, role), nil
}
