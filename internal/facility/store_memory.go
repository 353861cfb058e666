package facility

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"medix/pkg/platform/sentinel"
)

// InMemoryStore backs the facility tests without a database.
type InMemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]Facility

	// referenced marks unidades with dependent salas or colaboradores.
	referenced map[int64]bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		rows:       make(map[int64]Facility),
		referenced: make(map[int64]bool),
	}
}

// MarkReferenced simulates a dependent row holding a foreign key on the
// unidade.
func (s *InMemoryStore) MarkReferenced(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.referenced[id] = true
}

func (s *InMemoryStore) Insert(_ context.Context, f Facility) (*Facility, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	f.ID = s.nextID
	s.rows[f.ID] = f
	return &f, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id int64) (*Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.rows[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &f, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Facility, 0, len(s.rows))
	for _, f := range s.rows {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, f Facility) (*Facility, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[f.ID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	s.rows[f.ID] = f
	return &f, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return sentinel.ErrNotFound
	}
	if s.referenced[id] {
		return fmt.Errorf("%w: salas_unidade_id_fkey", sentinel.ErrConflict)
	}
	delete(s.rows, id)
	return nil
}
