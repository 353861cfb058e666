package store

import (
	"context"
	"sort"
	"sync"

	"medix/internal/evaluation/models"
	"medix/pkg/platform/sentinel"
)

// InMemory emulates both the read store and the procedure gateway over one
// map, so service tests see the same write-then-read behavior as the
// database: inserts assign IDs invisibly, deletes only flip the flag, and
// updates skip soft-deleted rows.
type InMemory struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]memoryRow
}

type memoryRow struct {
	evaluation models.Evaluation
	deleted    bool
}

func NewInMemory() *InMemory {
	return &InMemory{rows: make(map[int64]memoryRow)}
}

func (s *InMemory) FindActiveByID(_ context.Context, id int64) (*models.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[id]
	if !ok || row.deleted {
		return nil, sentinel.ErrNotFound
	}
	out := row.evaluation
	return &out, nil
}

func (s *InMemory) ListActive(_ context.Context) ([]models.Evaluation, error) {
	return s.list(false), nil
}

func (s *InMemory) ListDeleted(_ context.Context) ([]models.Evaluation, error) {
	return s.list(true), nil
}

func (s *InMemory) list(deleted bool) []models.Evaluation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Evaluation, 0)
	for _, row := range s.rows {
		if row.deleted == deleted {
			out = append(out, row.evaluation)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *InMemory) Insert(_ context.Context, horario, setor, local, avaliacao string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.rows[s.nextID] = memoryRow{evaluation: models.Evaluation{
		ID:        s.nextID,
		Horario:   horario,
		Setor:     setor,
		Local:     local,
		Avaliacao: avaliacao,
		Status:    models.StatusActive,
	}}
	return nil
}

func (s *InMemory) Update(_ context.Context, id int64, setor, local, avaliacao string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok || row.deleted {
		// The procedure updates WHERE deleted = 0 and says nothing when no
		// row matches; the service's verify read is what produces the 404.
		return nil
	}
	row.evaluation.Setor = setor
	row.evaluation.Local = local
	row.evaluation.Avaliacao = avaliacao
	s.rows[id] = row
	return nil
}

func (s *InMemory) SoftDelete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil
	}
	row.deleted = true
	row.evaluation.Status = models.StatusDeleted
	s.rows[id] = row
	return nil
}
