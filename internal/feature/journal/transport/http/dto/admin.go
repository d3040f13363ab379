package dto

import (
	"time"

	"journal_backend/internal/feature/journal/domain/entity"
)

// GrantRoleReq is the body of POST /admin/roles. Password is only used when the
// principal does not exist yet. Usernames follow the signup rules; the "username"
// tag is registered by the auth dto package.
type GrantRoleReq struct {
	Username string `json:"username" binding:"required,min=3,max=64,username"`
	Role     string `json:"role" binding:"required"`
	Password string `json:"password" binding:"omitempty,min=8,max=72"`
}

// PrincipalRes is a principal as shown to administrators. The credential hash is never included.
type PrincipalRes struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Roles      []string  `json:"roles"`
	EntryCount int       `json:"entry_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewPrincipalRes converts an entity.
func NewPrincipalRes(p *entity.Principal) PrincipalRes {
	return PrincipalRes{
		ID:         p.ID,
		Username:   p.Username,
		Roles:      p.Roles.Strings(),
		EntryCount: len(p.OwnedEntryIDs),
		CreatedAt:  p.CreatedAt.UTC(),
	}
}
