package docstore

import (
	"context"

	"journal_backend/internal/feature/journal/usecase"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by this package.
const DefaultPrefix = "journal"

// getter is satisfied by *redis.Client and by *redis.Tx inside WATCH.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Stores bundles the Redis principal and entry stores.
type Stores struct {
	principals *PrincipalRedis
	entries    *EntryRedis
}

// Compile-time check to ensure Stores implements usecase.Stores.
var _ usecase.Stores = (*Stores)(nil)

// NewStores returns both stores sharing client and prefix.
func NewStores(client *redis.Client, prefix string) *Stores {
	return &Stores{
		principals: NewPrincipalRedis(client, prefix),
		entries:    NewEntryRedis(client, prefix),
	}
}

// Principals returns the principal store.
func (s *Stores) Principals() usecase.PrincipalStore { return s.principals }

// Entries returns the entry store.
func (s *Stores) Entries() usecase.EntryStore { return s.entries }
