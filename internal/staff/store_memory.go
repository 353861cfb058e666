package staff

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"medix/pkg/platform/sentinel"
)

// InMemoryStore backs the staff tests without a database. Known especialidade
// IDs stand in for the foreign key; unknown references conflict the way
// 23503 would.
type InMemoryStore struct {
	mu          sync.RWMutex
	nextID      int64
	rows        map[int64]memoryRow
	specialties map[int64]bool
}

type memoryRow struct {
	staff   Staff
	deleted bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		rows:        make(map[int64]memoryRow),
		specialties: make(map[int64]bool),
	}
}

// AllowSpecialty registers an especialidade ID the foreign key accepts.
func (s *InMemoryStore) AllowSpecialty(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.specialties[id] = true
}

func (s *InMemoryStore) Insert(_ context.Context, c Staff) (*Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkConstraints(0, c); err != nil {
		return nil, err
	}
	s.nextID++
	c.ID = s.nextID
	s.rows[c.ID] = memoryRow{staff: c}
	return &c, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id int64) (*Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[id]
	if !ok || row.deleted {
		return nil, sentinel.ErrNotFound
	}
	out := row.staff
	return &out, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Staff, 0, len(s.rows))
	for _, row := range s.rows {
		if !row.deleted {
			out = append(out, row.staff)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, c Staff) (*Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[c.ID]
	if !ok || row.deleted {
		return nil, sentinel.ErrNotFound
	}
	if err := s.checkConstraints(c.ID, c); err != nil {
		return nil, err
	}
	row.staff = c
	s.rows[c.ID] = row
	return &c, nil
}

func (s *InMemoryStore) SoftDelete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok || row.deleted {
		return sentinel.ErrNotFound
	}
	row.deleted = true
	s.rows[id] = row
	return nil
}

func (s *InMemoryStore) checkConstraints(selfID int64, c Staff) error {
	if !s.specialties[c.EspecialidadeID] {
		return fmt.Errorf("%w: colaboradores_especialidade_id_fkey", sentinel.ErrConflict)
	}
	for id, row := range s.rows {
		if id != selfID && !row.deleted && strings.EqualFold(row.staff.Email, c.Email) {
			return fmt.Errorf("%w: colaboradores_email_key", sentinel.ErrConflict)
		}
	}
	return nil
}
