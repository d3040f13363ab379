package entity

import (
	"fmt"
	"sort"
	"strings"

	"journal_backend/internal/feature/journal/domain"
)

// Role is an authorization tag carried by a principal.
type Role string

const (
	// RoleUser is held by every principal.
	RoleUser Role = "USER"
	// RoleAdmin grants access to the administrative endpoints.
	RoleAdmin Role = "ADMIN"
)

// knownRoles is the closed set of roles accepted by ParseRole.
var knownRoles = map[Role]struct{}{
	RoleUser:  {},
	RoleAdmin: {},
}

// ParseRole converts a string into a Role. Matching is case-insensitive.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := knownRoles[r]; !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidRole, s)
	}
	return r, nil
}

// RoleSet is a sorted, duplicate-free set of roles that always contains RoleUser.
type RoleSet []Role

// NewRoleSet builds a RoleSet from the given roles plus RoleUser.
func NewRoleSet(roles ...Role) RoleSet {
	set := RoleSet{RoleUser}
	for _, r := range roles {
		set, _ = set.Add(r)
	}
	return set
}

// Has reports whether r is in the set.
func (s RoleSet) Has(r Role) bool {
	for _, x := range s {
		if x == r {
			return true
		}
	}
	return false
}

// Add returns the set with r added and whether the set changed.
func (s RoleSet) Add(r Role) (RoleSet, bool) {
	if s.Has(r) {
		return s, false
	}
	out := make(RoleSet, 0, len(s)+1)
	out = append(out, s...)
	out = append(out, r)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, true
}

// Strings returns the roles as plain strings, in set order.
func (s RoleSet) Strings() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}

// RoleSetFromStrings parses persisted role tags. Unknown tags are rejected so a
// corrupted record cannot silently grant or drop privileges.
func RoleSetFromStrings(values []string) (RoleSet, error) {
	roles := make([]Role, 0, len(values))
	for _, v := range values {
		r, err := ParseRole(v)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return NewRoleSet(roles...), nil
}
