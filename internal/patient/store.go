package patient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"medix/internal/database"
	"medix/pkg/platform/sentinel"
	"medix/pkg/platform/tx"
)

// PostgresStore persists pacientes. Deletion is soft; reads exclude
// soft-deleted rows.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, p Patient) (*Patient, error) {
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`INSERT INTO pacientes (nome, email) VALUES ($1, $2) RETURNING id`,
		p.Nome, p.Email,
	).Scan(&p.ID)
	if err != nil {
		return nil, database.MapError(err)
	}
	return &p, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*Patient, error) {
	p := &Patient{}
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, nome, email FROM pacientes WHERE id = $1 AND deleted = 0`,
		id,
	).Scan(&p.ID, &p.Nome, &p.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find paciente by id: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Patient, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx,
		`SELECT id, nome, email FROM pacientes WHERE deleted = 0 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list pacientes: %w", err)
	}
	defer rows.Close()

	var out []Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.Nome, &p.Email); err != nil {
			return nil, fmt.Errorf("scan paciente: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, p Patient) (*Patient, error) {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`UPDATE pacientes SET nome = $2, email = $3 WHERE id = $1 AND deleted = 0`,
		p.ID, p.Nome, p.Email,
	)
	if err != nil {
		return nil, database.MapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update paciente: %w", err)
	}
	if affected == 0 {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (s *PostgresStore) SoftDelete(ctx context.Context, id int64) error {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`UPDATE pacientes SET deleted = 1 WHERE id = $1 AND deleted = 0`, id,
	)
	if err != nil {
		return database.MapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete paciente: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// InMemoryStore backs the patient tests without a database.
type InMemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]inMemoryRow
}

type inMemoryRow struct {
	patient Patient
	deleted bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{rows: make(map[int64]inMemoryRow)}
}

func (s *InMemoryStore) Insert(_ context.Context, p Patient) (*Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEmail(0, p.Email); err != nil {
		return nil, err
	}
	s.nextID++
	p.ID = s.nextID
	s.rows[p.ID] = inMemoryRow{patient: p}
	return &p, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id int64) (*Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[id]
	if !ok || row.deleted {
		return nil, sentinel.ErrNotFound
	}
	out := row.patient
	return &out, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Patient, 0, len(s.rows))
	for _, row := range s.rows {
		if !row.deleted {
			out = append(out, row.patient)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, p Patient) (*Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[p.ID]
	if !ok || row.deleted {
		return nil, sentinel.ErrNotFound
	}
	if err := s.checkEmail(p.ID, p.Email); err != nil {
		return nil, err
	}
	row.patient = p
	s.rows[p.ID] = row
	return &p, nil
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

func (s *InMemoryStore) checkEmail(selfID int64, email string) error {
	for id, row := range s.rows {
		if id != selfID && !row.deleted && strings.EqualFold(row.patient.Email, email) {
			return fmt.Errorf("%w: pacientes_email_key", sentinel.ErrConflict)
		}
	}
	return nil
}
