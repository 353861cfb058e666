package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"medix/internal/specialty/models"
	"medix/pkg/platform/sentinel"
)

// InMemory emulates both the read store and the procedure gateway: the same
// map backs indexed reads and the non-returning mutations, so service tests
// exercise the real reconciliation flow without a database.
type InMemory struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]models.Specialty

	// referenced marks IDs with a simulated foreign-key dependency; deleting
	// them conflicts the way 23503 would.
	referenced map[int64]bool
}

func NewInMemory() *InMemory {
	return &InMemory{
		rows:       make(map[int64]models.Specialty),
		referenced: make(map[int64]bool),
	}
}

// MarkReferenced simulates a colaborador row depending on the especialidade.
func (s *InMemory) MarkReferenced(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.referenced[id] = true
}

func (s *InMemory) FindByID(_ context.Context, id int64) (*models.Specialty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.rows[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &sp, nil
}

func (s *InMemory) FindByName(_ context.Context, nome string) (*models.Specialty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sp := range s.rows {
		if strings.EqualFold(sp.Nome, nome) {
			out := sp
			return &out, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) List(_ context.Context) ([]models.Specialty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Specialty, 0, len(s.rows))
	for _, sp := range s.rows {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemory) Insert(_ context.Context, nome string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sp := range s.rows {
		if strings.EqualFold(sp.Nome, nome) {
			return fmt.Errorf("%w: especialidades_nome_lower_idx", sentinel.ErrConflict)
		}
	}
	s.nextID++
	s.rows[s.nextID] = models.Specialty{ID: s.nextID, Nome: nome}
	return nil
}

func (s *InMemory) Update(_ context.Context, id int64, nome string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.rows[id]
	if !ok {
		// Procedures are silent about missing rows; the service's
		// verify-before-call is what turns this into a 404.
		return nil
	}
	for otherID, other := range s.rows {
		if otherID != id && strings.EqualFold(other.Nome, nome) {
			return fmt.Errorf("%w: especialidades_nome_lower_idx", sentinel.ErrConflict)
		}
	}
	sp.Nome = nome
	s.rows[id] = sp
	return nil
}

func (s *InMemory) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.referenced[id] {
		return fmt.Errorf("%w: colaboradores_especialidade_id_fkey", sentinel.ErrConflict)
	}
	delete(s.rows, id)
	return nil
}
