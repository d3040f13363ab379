// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"journal_backend/internal/app/config"
	"journal_backend/internal/feature/journal/adapters"
	"journal_backend/internal/feature/journal/usecase"
	"journal_backend/internal/platform/docstore"
)

// Journal bundles the journal components shared by the server and the CLI tools.
type Journal struct {
	UnitOfWork usecase.UnitOfWork
	Usecase    *usecase.JournalUsecase
	Roles      *usecase.RoleManager
	Scanner    *usecase.IntegrityScanner
}

// NewUnitOfWork selects the unit of work for backend. The sql backend gets real
// transactions; the redis backend gets compensation over the document store.
func NewUnitOfWork(backend string, db *gorm.DB, rdb *redis.Client) (usecase.UnitOfWork, error) {
	switch backend {
	case config.BackendSQL:
		if db == nil {
			return nil, fmt.Errorf("store backend %q requires a database", backend)
		}
		return adapters.NewGormUnitOfWork(db), nil
	case config.BackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("store backend %q requires redis", backend)
		}
		return usecase.NewCompensatingUnitOfWork(docstore.NewStores(rdb, docstore.DefaultPrefix)), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

// NewJournal wires the journal usecases on top of uow.
func NewJournal(uow usecase.UnitOfWork, hasher usecase.CredentialHasher, policy usecase.RetryPolicy) *Journal {
	guard := usecase.NewAuthorizationGuard()
	roles := usecase.NewRoleManager(uow, hasher, policy)
	scanner := usecase.NewIntegrityScanner(uow.Stores())
	coordinator := usecase.NewCoordinator(uow, guard, usecase.WithRetryPolicy(policy))
	return &Journal{
		UnitOfWork: uow,
		Usecase:    usecase.NewJournalUsecase(uow.Stores(), guard, coordinator, roles, scanner),
		Roles:      roles,
		Scanner:    scanner,
	}
}

// RetryPolicy builds the coordinator retry policy from configuration.
func RetryPolicy(cfg config.Config) usecase.RetryPolicy {
	p := usecase.DefaultRetryPolicy
	p.MaxRetries = cfg.TxMaxRetries
	return p
}
