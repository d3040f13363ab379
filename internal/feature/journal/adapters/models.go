// Package adapters provides the SQL implementations of the journal stores.
package adapters

import (
	"time"

	"journal_backend/internal/feature/journal/domain/entity"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PrincipalModel is the GORM model for the principals table.
// Roles and owned entry ids are JSON columns; there is no foreign key to entries.
type PrincipalModel struct {
	ID             string                      `gorm:"primaryKey;size:36"`
	Username       string                      `gorm:"uniqueIndex;size:64;not null"`
	CredentialHash string                      `gorm:"size:255;not null"`
	Roles          datatypes.JSONSlice[string] `gorm:"not null"`
	OwnedEntryIDs  datatypes.JSONSlice[string] `gorm:"column:owned_entry_ids;not null"`
	Version        int64                       `gorm:"not null;default:1"`
	CreatedAt      time.Time                   `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (PrincipalModel) TableName() string {
	return "principals"
}

// ToEntity converts the GORM model to a domain entity.
// Unknown role tags are rejected rather than dropped.
func (m *PrincipalModel) ToEntity() (*entity.Principal, error) {
	roles, err := entity.RoleSetFromStrings(m.Roles)
	if err != nil {
		return nil, err
	}
	owned := make([]string, len(m.OwnedEntryIDs))
	copy(owned, m.OwnedEntryIDs)
	return &entity.Principal{
		ID:             m.ID,
		Username:       m.Username,
		CredentialHash: m.CredentialHash,
		Roles:          roles,
		OwnedEntryIDs:  owned,
		Version:        m.Version,
		CreatedAt:      m.CreatedAt,
	}, nil
}

// PrincipalModelFromEntity converts a domain entity to a GORM model.
func PrincipalModelFromEntity(p *entity.Principal) *PrincipalModel {
	owned := make([]string, len(p.OwnedEntryIDs))
	copy(owned, p.OwnedEntryIDs)
	return &PrincipalModel{
		ID:             p.ID,
		Username:       p.Username,
		CredentialHash: p.CredentialHash,
		Roles:          datatypes.JSONSlice[string](p.Roles.Strings()),
		OwnedEntryIDs:  datatypes.JSONSlice[string](owned),
		Version:        p.Version,
		CreatedAt:      p.CreatedAt,
	}
}

// EntryModel is the GORM model for the entries table. It carries no owner column.
type EntryModel struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Title     string    `gorm:"size:255"`
	Content   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM.
func (EntryModel) TableName() string {
	return "entries"
}

// ToEntity converts the GORM model to a domain entity.
func (m *EntryModel) ToEntity() *entity.JournalEntry {
	return &entity.JournalEntry{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// EntryModelFromEntity converts a domain entity to a GORM model.
func EntryModelFromEntity(e *entity.JournalEntry) *EntryModel {
	return &EntryModel{
		ID:        e.ID,
		Title:     e.Title,
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
	}
}

// Migrate creates or updates both tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&PrincipalModel{}, &EntryModel{})
}
