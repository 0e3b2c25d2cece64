package store

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// MemoryStore keeps trees in process memory. Records are copied on the way
// in and out, so callers never share state with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	trees map[string]*Record
	now   func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{trees: make(map[string]*Record), now: time.Now}
}

func (s *MemoryStore) CreateTree(_ context.Context, owner string, t *family.Tree) (*Record, error) {
	rec, err := newRecord(owner, t, s.now())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trees[rec.Tree.ID]; ok {
		return nil, idTaken(rec.Tree.ID)
	}
	s.trees[rec.Tree.ID] = rec
	return cloneRecord(rec), nil
}

func (s *MemoryStore) GetTree(_ context.Context, user, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.trees[id]
	if !ok {
		return nil, treeNotFound(id)
	}
	if err := authorize(rec, user, canView, "view"); err != nil {
		return nil, err
	}
	return cloneRecord(rec), nil
}

func (s *MemoryStore) PutTree(_ context.Context, user string, t *family.Tree) (*Record, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tree is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.trees[t.ID]
	if !ok {
		return nil, treeNotFound(t.ID)
	}
	next := cloneRecord(rec)
	if err := replaceTree(next, user, t, s.now()); err != nil {
		return nil, err
	}
	next.Version++
	s.trees[t.ID] = next
	return cloneRecord(next), nil
}

func (s *MemoryStore) DeleteTree(_ context.Context, user, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.trees[id]
	if !ok {
		return treeNotFound(id)
	}
	if err := authorize(rec, user, canManage, "delete"); err != nil {
		return err
	}
	delete(s.trees, id)
	return nil
}

func (s *MemoryStore) ListTrees(_ context.Context, user string) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Summary{}
	for _, rec := range s.trees {
		if rec.Role(user).CanView() {
			out = append(out, rec.summary(user))
		}
	}
	sortSummaries(out)
	return out, nil
}

func (s *MemoryStore) Share(_ context.Context, user, id string, m family.Member) error {
	return s.update(id, func(r *Record) error { return share(r, user, m, s.now()) })
}

func (s *MemoryStore) Unshare(_ context.Context, user, id, member string) error {
	return s.update(id, func(r *Record) error { return unshare(r, user, member, s.now()) })
}

func (s *MemoryStore) Members(ctx context.Context, user, id string) ([]family.Member, error) {
	rec, err := s.GetTree(ctx, user, id)
	if err != nil {
		return nil, err
	}
	return rec.Members, nil
}

func (s *MemoryStore) Close() error { return nil }

// update applies fn to a copy of the record and keeps it if fn succeeds.
func (s *MemoryStore) update(id string, fn func(*Record) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.trees[id]
	if !ok {
		return treeNotFound(id)
	}
	next := cloneRecord(rec)
	if err := fn(next); err != nil {
		return err
	}
	next.Version++
	s.trees[id] = next
	return nil
}

var _ Store = (*MemoryStore)(nil)
