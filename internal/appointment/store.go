package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"

	"medix/internal/database"
	"medix/pkg/platform/sentinel"
	"medix/pkg/platform/tx"
)

// PostgresStore persists agendamentos with direct SQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, a Appointment) (*Appointment, error) {
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`INSERT INTO agendamentos (usuario_id, unidade_id, especialidade_id, data, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		a.UsuarioID, a.UnidadeID, a.EspecialidadeID, a.Data, a.Status,
	).Scan(&a.ID)
	if err != nil {
		return nil, database.MapError(err)
	}
	return &a, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*Appointment, error) {
	a := &Appointment{}
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, usuario_id, unidade_id, especialidade_id, data, status
		 FROM agendamentos WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.UsuarioID, &a.UnidadeID, &a.EspecialidadeID, &a.Data, &a.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find agendamento by id: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Appointment, error) {
	return s.query(ctx,
		`SELECT id, usuario_id, unidade_id, especialidade_id, data, status
		 FROM agendamentos ORDER BY data, id`)
}

func (s *PostgresStore) ListByUsuario(ctx context.Context, usuarioID int64) ([]Appointment, error) {
	return s.query(ctx,
		`SELECT id, usuario_id, unidade_id, especialidade_id, data, status
		 FROM agendamentos WHERE usuario_id = $1 ORDER BY data, id`, usuarioID)
}

func (s *PostgresStore) query(ctx context.Context, q string, args ...any) ([]Appointment, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list agendamentos: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.UsuarioID, &a.UnidadeID, &a.EspecialidadeID, &a.Data, &a.Status); err != nil {
			return nil, fmt.Errorf("scan agendamento: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SetStatus(ctx context.Context, id int64, status Status) error {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`UPDATE agendamentos SET status = $2 WHERE id = $1`, id, status,
	)
	if err != nil {
		return database.MapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set agendamento status: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// InMemoryStore backs the appointment tests without a database.
type InMemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]Appointment
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{rows: make(map[int64]Appointment)}
}

func (s *InMemoryStore) Insert(_ context.Context, a Appointment) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	a.ID = s.nextID
	s.rows[a.ID] = a
	return &a, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id int64) (*Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.rows[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &a, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Appointment, 0, len(s.rows))
	for _, a := range s.rows {
		out = append(out, a)
	}
	sortAppointments(out)
	return out, nil
}

func (s *InMemoryStore) ListByUsuario(_ context.Context, usuarioID int64) ([]Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Appointment, 0)
	for _, a := range s.rows {
		if a.UsuarioID == usuarioID {
			out = append(out, a)
		}
	}
	sortAppointments(out)
	return out, nil
}

func (s *InMemoryStore) SetStatus(_ context.Context, id int64, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.rows[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	a.Status = status
	s.rows[id] = a
	return nil
}

func sortAppointments(out []Appointment) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Data.Equal(out[j].Data) {
			return out[i].Data.Before(out[j].Data)
		}
		return out[i].ID < out[j].ID
	})
}
