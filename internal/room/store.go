package room

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

// PostgresStore persists salas with direct SQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, r Room) (*Room, error) {
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`INSERT INTO salas (numero, unidade_id) VALUES ($1, $2) RETURNING id`,
		r.Numero, r.UnidadeID,
	).Scan(&r.ID)
	if err != nil {
		return nil, database.MapError(err)
	}
	return &r, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*Room, error) {
	r := &Room{}
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, numero, unidade_id FROM salas WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.Numero, &r.UnidadeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find sala by id: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Room, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx,
		`SELECT id, numero, unidade_id FROM salas ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list salas: %w", err)
	}
	defer rows.Close()

	var out []Room
	for rows.Next() {
		var r Room
		if err := rows.Scan(&r.ID, &r.Numero, &r.UnidadeID); err != nil {
			return nil, fmt.Errorf("scan sala: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, r Room) (*Room, error) {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`UPDATE salas SET numero = $2, unidade_id = $3 WHERE id = $1`,
		r.ID, r.Numero, r.UnidadeID,
	)
	if err != nil {
		return nil, database.MapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update sala: %w", err)
	}
	if affected == 0 {
		return nil, sentinel.ErrNotFound
	}
	return &r, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`DELETE FROM salas WHERE id = $1`, id,
	)
	if err != nil {
		return database.MapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete sala: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// InMemoryStore backs the room tests without a database. Known unidade IDs
// stand in for the foreign key.
type InMemoryStore struct {
	mu         sync.RWMutex
	nextID     int64
	rows       map[int64]Room
	facilities map[int64]bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		rows:       make(map[int64]Room),
		facilities: make(map[int64]bool),
	}
}

// AllowFacility registers a unidade ID the foreign key accepts.
func (s *InMemoryStore) AllowFacility(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facilities[id] = true
}

func (s *InMemoryStore) Insert(_ context.Context, r Room) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkConstraints(0, r); err != nil {
		return nil, err
	}
	s.nextID++
	r.ID = s.nextID
	s.rows[r.ID] = r
	return &r, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id int64) (*Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rows[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &r, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Room, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, r Room) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[r.ID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := s.checkConstraints(r.ID, r); err != nil {
		return nil, err
	}
	s.rows[r.ID] = r
	return &r, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *InMemoryStore) checkConstraints(selfID int64, r Room) error {
	if !s.facilities[r.UnidadeID] {
		return fmt.Errorf("%w: salas_unidade_id_fkey", sentinel.ErrConflict)
	}
	for id, other := range s.rows {
		if id != selfID && other.UnidadeID == r.UnidadeID && strings.EqualFold(other.Numero, r.Numero) {
			return fmt.Errorf("%w: salas_unidade_id_numero_key", sentinel.ErrConflict)
		}
	}
	return nil
}
