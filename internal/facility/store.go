package facility

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"medix/internal/database"
	"medix/pkg/platform/sentinel"
	"medix/pkg/platform/tx"
)

// PostgresStore persists unidades with direct SQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, f Facility) (*Facility, error) {
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`INSERT INTO unidades (nome, endereco, telefone)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		f.Nome, f.Endereco, f.Telefone,
	).Scan(&f.ID)
	if err != nil {
		return nil, database.MapError(err)
	}
	return &f, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*Facility, error) {
	f := &Facility{}
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, nome, endereco, telefone FROM unidades WHERE id = $1`,
		id,
	).Scan(&f.ID, &f.Nome, &f.Endereco, &f.Telefone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find unidade by id: %w", err)
	}
	return f, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Facility, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx,
		`SELECT id, nome, endereco, telefone FROM unidades ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list unidades: %w", err)
	}
	defer rows.Close()

	var out []Facility
	for rows.Next() {
		var f Facility
		if err := rows.Scan(&f.ID, &f.Nome, &f.Endereco, &f.Telefone); err != nil {
			return nil, fmt.Errorf("scan unidade: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, f Facility) (*Facility, error) {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`UPDATE unidades SET nome = $2, endereco = $3, telefone = $4 WHERE id = $1`,
		f.ID, f.Nome, f.Endereco, f.Telefone,
	)
	if err != nil {
		return nil, database.MapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update unidade: %w", err)
	}
	if affected == 0 {
		return nil, sentinel.ErrNotFound
	}
	return &f, nil
}

// Delete removes the unidade. Rows in salas, colaboradores or agendamentos
// that still reference it surface as a conflict via the foreign keys.
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`DELETE FROM unidades WHERE id = $1`, id,
	)
	if err != nil {
		return database.MapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete unidade: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
