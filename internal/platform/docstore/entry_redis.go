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

// entryDoc is the stored JSON form of a journal entry.
type entryDoc struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (d entryDoc) toEntity() *entity.JournalEntry {
	return &entity.JournalEntry{ID: d.ID, Title: d.Title, Content: d.Content, CreatedAt: d.CreatedAt}
}

// EntryRedis implements usecase.EntryStore using Redis.
type EntryRedis struct {
	client *redis.Client
	prefix string
}

// Compile-time check to ensure EntryRedis implements EntryStore.
var _ usecase.EntryStore = (*EntryRedis)(nil)

// NewEntryRedis creates a new EntryRedis instance.
func NewEntryRedis(client *redis.Client, prefix string) *EntryRedis {
	return &EntryRedis{client: client, prefix: prefix}
}

func (r *EntryRedis) entryKey(id string) string {
	return fmt.Sprintf("%s:entry:%s", r.prefix, id)
}

func (r *EntryRedis) entriesKey() string {
	return fmt.Sprintf("%s:entries", r.prefix)
}

// Create stores the entry document and registers its id.
func (r *EntryRedis) Create(ctx context.Context, e *entity.JournalEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(entryDoc{ID: e.ID, Title: e.Title, Content: e.Content, CreatedAt: e.CreatedAt})
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.entryKey(e.ID), data, 0)
		pipe.SAdd(ctx, r.entriesKey(), e.ID)
		return nil
	})
	return err
}

// FindByID retrieves an entry by id.
func (r *EntryRedis) FindByID(ctx context.Context, id string) (*entity.JournalEntry, error) {
	doc, err := r.load(ctx, r.client, id)
	if err != nil {
		return nil, err
	}
	return doc.toEntity(), nil
}

// FindByIDs fetches all ids with a single MGET.
func (r *EntryRedis) FindByIDs(ctx context.Context, ids []string) ([]*entity.JournalEntry, error) {
	if len(ids) == 0 {
		return []*entity.JournalEntry{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.entryKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*entity.JournalEntry, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var doc entryDoc
		if err := json.Unmarshal([]byte(s), &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entry %s: %w", ids[i], err)
		}
		out = append(out, doc.toEntity())
	}
	return out, nil
}

// List returns every registered entry, oldest first.
func (r *EntryRedis) List(ctx context.Context) ([]*entity.JournalEntry, error) {
	ids, err := r.client.SMembers(ctx, r.entriesKey()).Result()
	if err != nil {
		return nil, err
	}
	out, err := r.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Update rewrites title and content under WATCH, keeping created_at.
func (r *EntryRedis) Update(ctx context.Context, e *entity.JournalEntry) error {
	key := r.entryKey(e.ID)
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := r.load(ctx, tx, e.ID)
		if err != nil {
			return err
		}
		cur.Title = e.Title
		cur.Content = e.Content
		data, err := json.Marshal(cur)
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return domain.ErrConcurrentUpdate
	}
	return err
}

// Delete removes the entry document and its registration.
func (r *EntryRedis) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, r.entryKey(id))
		pipe.SRem(ctx, r.entriesKey(), id)
		return nil
	})
	if err != nil {
		return err
	}
	if del.Val() == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func (r *EntryRedis) load(ctx context.Context, c getter, id string) (entryDoc, error) {
	var doc entryDoc
	data, err := c.Get(ctx, r.entryKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return doc, domain.ErrEntryNotFound
		}
		return doc, err
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("failed to unmarshal entry: %w", err)
	}
	return doc, nil
}
