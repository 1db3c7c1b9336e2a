// Package crudtest provides an in-memory crud.Store for handler and
// service tests.
package crudtest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/emr/emr/internal/platform/db"
)

// MemStore keeps entities in a map. Find and Count ignore the query's
// filters; specialized test repositories filter All themselves.
type MemStore[T any, PT db.EntityPtr[T]] struct {
	mu     sync.Mutex
	rows   map[int64]*T
	nextID int64
	// Err, when set, is returned by every call.
	Err error
}

func NewMemStore[T any, PT db.EntityPtr[T]]() *MemStore[T, PT] {
	return &MemStore[T, PT]{rows: make(map[int64]*T)}
}

func (s *MemStore[T, PT]) GetByID(_ context.Context, id int64) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	e, ok := s.rows[id]
	if !ok {
		return nil, fmt.Errorf("get %d: %w", id, db.ErrNotFound)
	}
	cp := *e
	return &cp, nil
}

func (s *MemStore[T, PT]) GetAll(ctx context.Context) ([]*T, error) {
	return s.Find(ctx, nil)
}

// All returns every row ordered by id.
func (s *MemStore[T, PT]) All() []*T {
	items, _ := s.Find(context.Background(), nil)
	return items
}

func (s *MemStore[T, PT]) Find(_ context.Context, _ *db.Query) ([]*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	ids := make([]int64, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		cp := *s.rows[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemStore[T, PT]) Count(ctx context.Context, q *db.Query) (int, error) {
	items, err := s.Find(ctx, q)
	return len(items), err
}

func (s *MemStore[T, PT]) Add(ctx context.Context, e *T) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.nextID++
	m := PT(e).Meta()
	m.ID = s.nextID
	m.CreatedDate = time.Now().UTC()
	m.CreatedBy = db.ActorFromContext(ctx)
	cp := *e
	s.rows[m.ID] = &cp
	return e, nil
}

func (s *MemStore[T, PT]) Update(ctx context.Context, e *T) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	m := PT(e).Meta()
	if _, ok := s.rows[m.ID]; !ok {
		return nil, fmt.Errorf("update %d: %w", m.ID, db.ErrNotFound)
	}
	now := time.Now().UTC()
	m.ModifiedDate = &now
	m.ModifiedBy = db.ActorFromContext(ctx)
	cp := *e
	s.rows[m.ID] = &cp
	return e, nil
}

func (s *MemStore[T, PT]) Delete(ctx context.Context, e *T) error {
	return s.DeleteByID(ctx, PT(e).Meta().ID)
}

func (s *MemStore[T, PT]) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.rows[id]; !ok {
		return fmt.Errorf("delete %d: %w", id, db.ErrNotFound)
	}
	delete(s.rows, id)
	return nil
}

// Where returns the rows for which keep is true, ordered by id.
func (s *MemStore[T, PT]) Where(keep func(*T) bool) []*T {
	var out []*T
	for _, e := range s.All() {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
