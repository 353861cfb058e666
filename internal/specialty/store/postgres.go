package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"medix/internal/specialty/models"
	"medix/pkg/platform/sentinel"
	"medix/pkg/platform/tx"
)

// Postgres reads especialidade rows. Writes never happen here; they go
// through the procedure gateway.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) FindByID(ctx context.Context, id int64) (*models.Specialty, error) {
	sp := &models.Specialty{}
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, nome FROM especialidades WHERE id = $1`,
		id,
	).Scan(&sp.ID, &sp.Nome)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find especialidade by id: %w", err)
	}
	return sp, nil
}

// FindByName matches case-insensitively, backed by the unique lower(nome)
// index. This is the reconciliation read after an insert procedure call.
func (s *Postgres) FindByName(ctx context.Context, nome string) (*models.Specialty, error) {
	sp := &models.Specialty{}
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, nome FROM especialidades WHERE lower(nome) = lower($1)`,
		nome,
	).Scan(&sp.ID, &sp.Nome)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find especialidade by nome: %w", err)
	}
	return sp, nil
}

func (s *Postgres) List(ctx context.Context) ([]models.Specialty, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx,
		`SELECT id, nome FROM especialidades ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list especialidades: %w", err)
	}
	defer rows.Close()

	var out []models.Specialty
	for rows.Next() {
		var sp models.Specialty
		if err := rows.Scan(&sp.ID, &sp.Nome); err != nil {
			return nil, fmt.Errorf("scan especialidade: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}
