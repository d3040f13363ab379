package adapters

import (
	"context"

	"journal_backend/internal/feature/journal/usecase"

	"gorm.io/gorm"
)

// gormStores binds both stores to one *gorm.DB, which may be a transaction.
type gormStores struct {
	principals *principalGorm
	entries    *entryGorm
}

// NewGormStores returns both stores bound to db.
func NewGormStores(db *gorm.DB) usecase.Stores {
	return &gormStores{principals: NewPrincipalGorm(db), entries: NewEntryGorm(db)}
}

func (s *gormStores) Principals() usecase.PrincipalStore { return s.principals }
func (s *gormStores) Entries() usecase.EntryStore        { return s.entries }

// GormUnitOfWork runs units inside a database transaction, so both tables commit
// or roll back together.
type GormUnitOfWork struct {
	db        *gorm.DB
	newStores func(db *gorm.DB) usecase.Stores
}

// Compile-time check to ensure GormUnitOfWork implements UnitOfWork.
var _ usecase.UnitOfWork = (*GormUnitOfWork)(nil)

// NewGormUnitOfWork creates a GormUnitOfWork over db.
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db, newStores: NewGormStores}
}

// Stores returns stores bound to the plain connection.
func (u *GormUnitOfWork) Stores() usecase.Stores {
	return u.newStores(u.db)
}

// Do runs fn in a transaction. A returned error or a panic rolls it back.
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, s usecase.Stores) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, u.newStores(tx))
	})
}
