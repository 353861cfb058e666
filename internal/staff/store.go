package staff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"medix/internal/database"
	"medix/pkg/platform/sentinel"
	"medix/pkg/platform/tx"
)

// PostgresStore persists colaboradores. Deletion is soft; reads exclude
// soft-deleted rows.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, c Staff) (*Staff, error) {
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`INSERT INTO colaboradores (nome, email, especialidade_id, unidade_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		c.Nome, c.Email, c.EspecialidadeID, c.UnidadeID,
	).Scan(&c.ID)
	if err != nil {
		return nil, database.MapError(err)
	}
	return &c, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*Staff, error) {
	c := &Staff{}
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, nome, email, especialidade_id, unidade_id
		 FROM colaboradores WHERE id = $1 AND deleted = 0`,
		id,
	).Scan(&c.ID, &c.Nome, &c.Email, &c.EspecialidadeID, &c.UnidadeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find colaborador by id: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Staff, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx,
		`SELECT id, nome, email, especialidade_id, unidade_id
		 FROM colaboradores WHERE deleted = 0 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list colaboradores: %w", err)
	}
	defer rows.Close()

	var out []Staff
	for rows.Next() {
		var c Staff
		if err := rows.Scan(&c.ID, &c.Nome, &c.Email, &c.EspecialidadeID, &c.UnidadeID); err != nil {
			return nil, fmt.Errorf("scan colaborador: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, c Staff) (*Staff, error) {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`UPDATE colaboradores
		 SET nome = $2, email = $3, especialidade_id = $4, unidade_id = $5
		 WHERE id = $1 AND deleted = 0`,
		c.ID, c.Nome, c.Email, c.EspecialidadeID, c.UnidadeID,
	)
	if err != nil {
		return nil, database.MapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update colaborador: %w", err)
	}
	if affected == 0 {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *PostgresStore) SoftDelete(ctx context.Context, id int64) error {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`UPDATE colaboradores SET deleted = 1 WHERE id = $1 AND deleted = 0`, id,
	)
	if err != nil {
		return database.MapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete colaborador: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
