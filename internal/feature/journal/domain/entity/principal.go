// Package entity defines the domain entities for the journal feature.
package entity

import "time"

// Principal is an authenticated actor that owns journal entries.
type Principal struct {
	// ID is the opaque, immutable identifier generated at creation.
	ID string
	// Username is globally unique and never changes once issued.
	Username string
	// CredentialHash is the bcrypt hash of the principal's password.
	// It is never exposed outward.
	CredentialHash string
	// Roles always contains RoleUser.
	Roles RoleSet
	// OwnedEntryIDs lists the entries owned by this principal in creation order.
	// Only the consistency coordinator mutates it.
	OwnedEntryIDs []string
	// Version is the compare-and-swap token used by stores on Save.
	Version int64
	// CreatedAt is the creation timestamp.
	CreatedAt time.Time
}

// NewPrincipal returns a principal holding RoleUser plus the given roles and no entries.
func NewPrincipal(username, credentialHash string, roles ...Role) *Principal {
	return &Principal{
		Username:       username,
		CredentialHash: credentialHash,
		Roles:          NewRoleSet(roles...),
		OwnedEntryIDs:  []string{},
	}
}

// Owns reports whether entryID is in the owned-entry set.
func (p *Principal) Owns(entryID string) bool {
	for _, id := range p.OwnedEntryIDs {
		if id == entryID {
			return true
		}
	}
	return false
}

// AddEntry appends entryID to the owned-entry set.
func (p *Principal) AddEntry(entryID string) {
	p.OwnedEntryIDs = append(p.OwnedEntryIDs, entryID)
}

// RemoveEntry removes entryID from the owned-entry set, preserving order.
// It returns false if the id was not present.
func (p *Principal) RemoveEntry(entryID string) bool {
	for i, id := range p.OwnedEntryIDs {
		if id == entryID {
			out := make([]string, 0, len(p.OwnedEntryIDs)-1)
			out = append(out, p.OwnedEntryIDs[:i]...)
			p.OwnedEntryIDs = append(out, p.OwnedEntryIDs[i+1:]...)
			return true
		}
	}
	return false
}

// HasRole reports whether the principal holds r.
func (p *Principal) HasRole(r Role) bool {
	return p.Roles.Has(r)
}

// Clone returns a deep copy, used for undo snapshots.
func (p *Principal) Clone() *Principal {
	c := *p
	c.Roles = append(RoleSet(nil), p.Roles...)
	c.OwnedEntryIDs = append([]string{}, p.OwnedEntryIDs...)
	return &c
}

// PrincipalSeed carries the credential used when a principal has to be created
// as a side effect of a role grant.
type PrincipalSeed struct {
	Password string
}
