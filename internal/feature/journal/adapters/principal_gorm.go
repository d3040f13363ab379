package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"journal_backend/internal/feature/journal/domain"
	"journal_backend/internal/feature/journal/domain/entity"
	"journal_backend/internal/feature/journal/usecase"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// principalGorm is a GORM implementation of the PrincipalStore interface.
type principalGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure principalGorm implements PrincipalStore.
var _ usecase.PrincipalStore = (*principalGorm)(nil)

// NewPrincipalGorm creates a new instance of principalGorm.
func NewPrincipalGorm(db *gorm.DB) *principalGorm {
	return &principalGorm{db: db}
}

// Create persists a new principal with version 1.
// It returns domain.ErrUsernameTaken when the username already exists.
func (r *principalGorm) Create(ctx context.Context, p *entity.Principal) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.Version = 1
	model := PrincipalModelFromEntity(p)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUsernameTaken
		}
		return err
	}
	return nil
}

// FindByID retrieves a principal by its id.
func (r *principalGorm) FindByID(ctx context.Context, id string) (*entity.Principal, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByUsername retrieves a principal by its username.
func (r *principalGorm) FindByUsername(ctx context.Context, username string) (*entity.Principal, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *principalGorm) first(ctx context.Context, query string, arg any) (*entity.Principal, error) {
	var model PrincipalModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, err
	}
	return model.ToEntity()
}

// List returns every principal ordered by username.
func (r *principalGorm) List(ctx context.Context) ([]*entity.Principal, error) {
	var models []PrincipalModel
	if err := r.db.WithContext(ctx).Order("username ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.Principal, 0, len(models))
	for i := range models {
		p, err := models[i].ToEntity()
		if err != nil {
			return nil, fmt.Errorf("principal %s: %w", models[i].ID, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Save writes roles and owned entry ids guarded by the version column.
func (r *principalGorm) Save(ctx context.Context, p *entity.Principal) error {
	owned := make([]string, len(p.OwnedEntryIDs))
	copy(owned, p.OwnedEntryIDs)
	result := r.db.WithContext(ctx).
		Model(&PrincipalModel{}).
		Where("id = ? AND version = ?", p.ID, p.Version).
		Updates(map[string]any{
			"roles":           datatypes.JSONSlice[string](p.Roles.Strings()),
			"owned_entry_ids": datatypes.JSONSlice[string](owned),
			"version":         p.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missOrConflict(ctx, p.ID)
	}
	p.Version++
	return nil
}

// Delete removes the principal guarded by the version column.
func (r *principalGorm) Delete(ctx context.Context, p *entity.Principal) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND version = ?", p.ID, p.Version).
		Delete(&PrincipalModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missOrConflict(ctx, p.ID)
	}
	return nil
}

// missOrConflict explains a guarded write that matched no row.
func (r *principalGorm) missOrConflict(ctx context.Context, id string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&PrincipalModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrPrincipalNotFound
	}
	return domain.ErrConcurrentUpdate
}

// isUniqueViolation recognizes duplicate-key errors from PostgreSQL and SQLite.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
