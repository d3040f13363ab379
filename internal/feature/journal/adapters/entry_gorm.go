package adapters

import (
	"context"
	"errors"
	"time"

	"journal_backend/internal/feature/journal/domain"
	"journal_backend/internal/feature/journal/domain/entity"
	"journal_backend/internal/feature/journal/usecase"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// entryGorm is a GORM implementation of the EntryStore interface.
type entryGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure entryGorm implements EntryStore.
var _ usecase.EntryStore = (*entryGorm)(nil)

// NewEntryGorm creates a new instance of entryGorm.
func NewEntryGorm(db *gorm.DB) *entryGorm {
	return &entryGorm{db: db}
}

// Create inserts the entry, generating an id when none is set.
func (r *entryGorm) Create(ctx context.Context, e *entity.JournalEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(EntryModelFromEntity(e)).Error
}

// FindByID retrieves an entry by id.
func (r *entryGorm) FindByID(ctx context.Context, id string) (*entity.JournalEntry, error) {
	var model EntryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// FindByIDs retrieves the entries that exist among ids.
func (r *entryGorm) FindByIDs(ctx context.Context, ids []string) ([]*entity.JournalEntry, error) {
	if len(ids) == 0 {
		return []*entity.JournalEntry{}, nil
	}
	var models []EntryModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	return toEntries(models), nil
}

// List returns every entry, oldest first.
func (r *entryGorm) List(ctx context.Context) ([]*entity.JournalEntry, error) {
	var models []EntryModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return toEntries(models), nil
}

// Update writes title and content. created_at is left untouched.
func (r *entryGorm) Update(ctx context.Context, e *entity.JournalEntry) error {
	result := r.db.WithContext(ctx).
		Model(&EntryModel{}).
		Where("id = ?", e.ID).
		Updates(map[string]any{"title": e.Title, "content": e.Content})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

// Delete removes the entry by id.
func (r *entryGorm) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&EntryModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func toEntries(models []EntryModel) []*entity.JournalEntry {
	out := make([]*entity.JournalEntry, len(models))
	for i := range models {
		out[i] = models[i].ToEntity()
	}
	return out
}
