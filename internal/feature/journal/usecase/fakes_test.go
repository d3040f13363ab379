package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"journal_backend/internal/feature/journal/domain"
	"journal_backend/internal/feature/journal/domain/entity"
	"journal_backend/internal/feature/journal/usecase"
)

// memDB is an in-memory implementation of both stores with failure hooks.
// Hooks run before the store applies the mutation; a non-nil return aborts it.
type memDB struct {
	mu         sync.Mutex
	principals map[string]*entity.Principal
	entries    map[string]*entity.JournalEntry
	seq        int

	principalWrites int
	entryWrites     int

	SavePrincipalFunc   func(p *entity.Principal) error
	DeletePrincipalFunc func(p *entity.Principal) error
	CreateEntryFunc     func(e *entity.JournalEntry) error
	DeleteEntryFunc     func(id string) error
	FindEntriesFunc     func(ids []string)
}

func newMemDB() *memDB {
	return &memDB{
		principals: map[string]*entity.Principal{},
		entries:    map[string]*entity.JournalEntry{},
	}
}

func (db *memDB) Principals() usecase.PrincipalStore { return &memPrincipals{db: db} }
func (db *memDB) Entries() usecase.EntryStore        { return &memEntries{db: db} }

type memSnapshot struct {
	principals map[string]*entity.Principal
	entries    map[string]*entity.JournalEntry
}

func (db *memDB) snapshot() memSnapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	s := memSnapshot{
		principals: make(map[string]*entity.Principal, len(db.principals)),
		entries:    make(map[string]*entity.JournalEntry, len(db.entries)),
	}
	for k, v := range db.principals {
		s.principals[k] = v.Clone()
	}
	for k, v := range db.entries {
		s.entries[k] = v.Clone()
	}
	return s
}

func (db *memDB) restore(s memSnapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.principals = s.principals
	db.entries = s.entries
}

func (db *memDB) nextID(prefix string) string {
	db.seq++
	return fmt.Sprintf("%s-%d", prefix, db.seq)
}

// entryCount returns the number of stored entries.
func (db *memDB) entryCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.entries)
}

func (db *memDB) hasEntry(id string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, ok := db.entries[id]
	return ok
}

// seedPrincipal stores a principal directly, bypassing hooks and counters.
func (db *memDB) seedPrincipal(username string, owned ...string) *entity.Principal {
	db.mu.Lock()
	defer db.mu.Unlock()
	p := entity.NewPrincipal(username, "hash-"+username)
	p.ID = db.nextID("p")
	p.Version = 1
	p.OwnedEntryIDs = append(p.OwnedEntryIDs, owned...)
	db.principals[p.ID] = p.Clone()
	return p
}

// seedEntry stores an entry directly, bypassing hooks and counters.
func (db *memDB) seedEntry(id, title string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.entries[id] = &entity.JournalEntry{ID: id, Title: title}
}

type memPrincipals struct{ db *memDB }

func (s *memPrincipals) Create(_ context.Context, p *entity.Principal) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, cur := range s.db.principals {
		if cur.Username == p.Username {
			return domain.ErrUsernameTaken
		}
	}
	if p.ID == "" {
		p.ID = s.db.nextID("p")
	}
	p.Version = 1
	s.db.principals[p.ID] = p.Clone()
	s.db.principalWrites++
	return nil
}

func (s *memPrincipals) FindByID(_ context.Context, id string) (*entity.Principal, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.principals[id]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	return p.Clone(), nil
}

func (s *memPrincipals) FindByUsername(_ context.Context, username string) (*entity.Principal, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, p := range s.db.principals {
		if p.Username == username {
			return p.Clone(), nil
		}
	}
	return nil, domain.ErrPrincipalNotFound
}

func (s *memPrincipals) List(_ context.Context) ([]*entity.Principal, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]*entity.Principal, 0, len(s.db.principals))
	for _, p := range s.db.principals {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *memPrincipals) Save(_ context.Context, p *entity.Principal) error {
	if s.db.SavePrincipalFunc != nil {
		if err := s.db.SavePrincipalFunc(p); err != nil {
			return err
		}
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cur, ok := s.db.principals[p.ID]
	if !ok {
		return domain.ErrPrincipalNotFound
	}
	if cur.Version != p.Version {
		return domain.ErrConcurrentUpdate
	}
	p.Version++
	s.db.principals[p.ID] = p.Clone()
	s.db.principalWrites++
	return nil
}

func (s *memPrincipals) Delete(_ context.Context, p *entity.Principal) error {
	if s.db.DeletePrincipalFunc != nil {
		if err := s.db.DeletePrincipalFunc(p); err != nil {
			return err
		}
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cur, ok := s.db.principals[p.ID]
	if !ok {
		return domain.ErrPrincipalNotFound
	}
	if cur.Version != p.Version {
		return domain.ErrConcurrentUpdate
	}
	delete(s.db.principals, p.ID)
	s.db.principalWrites++
	return nil
}

type memEntries struct{ db *memDB }

func (s *memEntries) Create(_ context.Context, e *entity.JournalEntry) error {
	if s.db.CreateEntryFunc != nil {
		if err := s.db.CreateEntryFunc(e); err != nil {
			return err
		}
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if e.ID == "" {
		e.ID = s.db.nextID("e")
	}
	s.db.entries[e.ID] = e.Clone()
	s.db.entryWrites++
	return nil
}

func (s *memEntries) FindByID(_ context.Context, id string) (*entity.JournalEntry, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	e, ok := s.db.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return e.Clone(), nil
}

func (s *memEntries) FindByIDs(_ context.Context, ids []string) ([]*entity.JournalEntry, error) {
	if s.db.FindEntriesFunc != nil {
		s.db.FindEntriesFunc(ids)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]*entity.JournalEntry, 0, len(ids))
	for _, id := range ids {
		if e, ok := s.db.entries[id]; ok {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

func (s *memEntries) List(_ context.Context) ([]*entity.JournalEntry, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]*entity.JournalEntry, 0, len(s.db.entries))
	for _, e := range s.db.entries {
		out = append(out, e.Clone())
	}
	return out, nil
}

func (s *memEntries) Update(_ context.Context, e *entity.JournalEntry) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cur, ok := s.db.entries[e.ID]
	if !ok {
		return domain.ErrEntryNotFound
	}
	cur.Title = e.Title
	cur.Content = e.Content
	s.db.entryWrites++
	return nil
}

func (s *memEntries) Delete(_ context.Context, id string) error {
	if s.db.DeleteEntryFunc != nil {
		if err := s.db.DeleteEntryFunc(id); err != nil {
			return err
		}
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.entries[id]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(s.db.entries, id)
	s.db.entryWrites++
	return nil
}

// memUnitOfWork emulates a transactional store: a failing unit restores the snapshot
// taken when it started.
type memUnitOfWork struct {
	db    *memDB
	mu    sync.Mutex
	units int
}

func (u *memUnitOfWork) Stores() usecase.Stores { return u.db }

func (u *memUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, s usecase.Stores) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.units++
	snap := u.db.snapshot()
	if err := fn(ctx, u.db); err != nil {
		u.db.restore(snap)
		return err
	}
	return nil
}

// mockHasher implements usecase.CredentialHasher.
type mockHasher struct {
	HashFunc  func(password string) (string, error)
	HashCalls int
}

func (m *mockHasher) Hash(password string) (string, error) {
	m.HashCalls++
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed:" + password, nil
}

// fastRetry keeps retry tests quick.
var fastRetry = usecase.RetryPolicy{MaxRetries: 2, BaseDelay: 1}

type fixture struct {
	db          *memDB
	uow         *memUnitOfWork
	hasher      *mockHasher
	coordinator *usecase.Coordinator
	journal     *usecase.JournalUsecase
}

func newFixture() *fixture {
	db := newMemDB()
	uow := &memUnitOfWork{db: db}
	hasher := &mockHasher{}
	guard := usecase.NewAuthorizationGuard()
	coordinator := usecase.NewCoordinator(uow, guard, usecase.WithRetryPolicy(fastRetry))
	roles := usecase.NewRoleManager(uow, hasher, fastRetry)
	scanner := usecase.NewIntegrityScanner(db)
	return &fixture{
		db:          db,
		uow:         uow,
		hasher:      hasher,
		coordinator: coordinator,
		journal:     usecase.NewJournalUsecase(db, guard, coordinator, roles, scanner),
	}
}
