// Package docstore implements the journal stores as JSON documents in Redis.
// Each document write is atomic on its own; multi-document units rely on
// usecase.CompensatingUnitOfWork.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"journal_backend/internal/feature/journal/domain"
	"journal_backend/internal/feature/journal/domain/entity"
	"journal_backend/internal/feature/journal/usecase"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// principalDoc is the stored JSON form of a principal.
type principalDoc struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	CredentialHash string    `json:"credential_hash"`
	Roles          []string  `json:"roles"`
	OwnedEntryIDs  []string  `json:"owned_entry_ids"`
	Version        int64     `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
}

func principalDocFromEntity(p *entity.Principal) principalDoc {
	owned := make([]string, len(p.OwnedEntryIDs))
	copy(owned, p.OwnedEntryIDs)
	return principalDoc{
		ID:             p.ID,
		Username:       p.Username,
		CredentialHash: p.CredentialHash,
		Roles:          p.Roles.Strings(),
		OwnedEntryIDs:  owned,
		Version:        p.Version,
		CreatedAt:      p.CreatedAt,
	}
}

func (d principalDoc) toEntity() (*entity.Principal, error) {
	roles, err := entity.RoleSetFromStrings(d.Roles)
	if err != nil {
		return nil, err
	}
	owned := d.OwnedEntryIDs
	if owned == nil {
		owned = []string{}
	}
	return &entity.Principal{
		ID:             d.ID,
		Username:       d.Username,
		CredentialHash: d.CredentialHash,
		Roles:          roles,
		OwnedEntryIDs:  owned,
		Version:        d.Version,
		CreatedAt:      d.CreatedAt,
	}, nil
}

// PrincipalRedis implements usecase.PrincipalStore using Redis.
type PrincipalRedis struct {
	client *redis.Client
	prefix string
}

// Compile-time check to ensure PrincipalRedis implements PrincipalStore.
var _ usecase.PrincipalStore = (*PrincipalRedis)(nil)

// NewPrincipalRedis creates a new PrincipalRedis instance.
func NewPrincipalRedis(client *redis.Client, prefix string) *PrincipalRedis {
	return &PrincipalRedis{client: client, prefix: prefix}
}

// principalKey returns the Redis key for a principal document.
func (r *PrincipalRedis) principalKey(id string) string {
	return fmt.Sprintf("%s:principal:%s", r.prefix, id)
}

// usernameKey returns the Redis key of the unique username index.
func (r *PrincipalRedis) usernameKey(username string) string {
	return fmt.Sprintf("%s:principal:username:%s", r.prefix, username)
}

// principalsKey returns the Redis key of the set of all principal ids.
func (r *PrincipalRedis) principalsKey() string {
	return fmt.Sprintf("%s:principals", r.prefix)
}

// Create claims the username with SETNX and stores the document.
func (r *PrincipalRedis) Create(ctx context.Context, p *entity.Principal) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.Version = 1
	data, err := json.Marshal(principalDocFromEntity(p))
	if err != nil {
		return fmt.Errorf("failed to marshal principal: %w", err)
	}

	claimed, err := r.client.SetNX(ctx, r.usernameKey(p.Username), p.ID, 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return domain.ErrUsernameTaken
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.principalKey(p.ID), data, 0)
		pipe.SAdd(ctx, r.principalsKey(), p.ID)
		return nil
	})
	if err != nil {
		// release the username so a retry can claim it
		r.client.Del(context.WithoutCancel(ctx), r.usernameKey(p.Username))
		return err
	}
	return nil
}

// FindByID retrieves a principal by its id.
func (r *PrincipalRedis) FindByID(ctx context.Context, id string) (*entity.Principal, error) {
	doc, err := r.load(ctx, r.client, id)
	if err != nil {
		return nil, err
	}
	return doc.toEntity()
}

// FindByUsername resolves the username index and loads the document.
func (r *PrincipalRedis) FindByUsername(ctx context.Context, username string) (*entity.Principal, error) {
	id, err := r.client.Get(ctx, r.usernameKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// List returns every principal ordered by username.
func (r *PrincipalRedis) List(ctx context.Context) ([]*entity.Principal, error) {
	ids, err := r.client.SMembers(ctx, r.principalsKey()).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Principal, 0, len(ids))
	for _, id := range ids {
		p, err := r.FindByID(ctx, id)
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// Save rewrites roles and owned entry ids under WATCH. A version mismatch or a
// concurrent write to the key yields domain.ErrConcurrentUpdate.
func (r *PrincipalRedis) Save(ctx context.Context, p *entity.Principal) error {
	key := r.principalKey(p.ID)
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := r.load(ctx, tx, p.ID)
		if err != nil {
			return err
		}
		if cur.Version != p.Version {
			return domain.ErrConcurrentUpdate
		}
		next := principalDocFromEntity(p)
		cur.Roles = next.Roles
		cur.OwnedEntryIDs = next.OwnedEntryIDs
		cur.Version++
		data, err := json.Marshal(cur)
		if err != nil {
			return fmt.Errorf("failed to marshal principal: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key)
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return domain.ErrConcurrentUpdate
		}
		return err
	}
	p.Version++
	return nil
}

// Delete removes the document, its username index and its set membership under WATCH.
func (r *PrincipalRedis) Delete(ctx context.Context, p *entity.Principal) error {
	key := r.principalKey(p.ID)
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := r.load(ctx, tx, p.ID)
		if err != nil {
			return err
		}
		if cur.Version != p.Version {
			return domain.ErrConcurrentUpdate
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key, r.usernameKey(cur.Username))
			pipe.SRem(ctx, r.principalsKey(), p.ID)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return domain.ErrConcurrentUpdate
	}
	return err
}

func (r *PrincipalRedis) load(ctx context.Context, c getter, id string) (principalDoc, error) {
	var doc principalDoc
	data, err := c.Get(ctx, r.principalKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return doc, domain.ErrPrincipalNotFound
		}
		return doc, err
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("failed to unmarshal principal: %w", err)
	}
	return doc, nil
}
