package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"medix/internal/evaluation/models"
	"medix/pkg/platform/sentinel"
	"medix/pkg/platform/tx"
)

// Postgres reads avaliacao rows; mutations go through the procedure gateway.
// The horario column is cast to text on the way out so the TIME value arrives
// as the HH:MM:SS string the API serves.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const selectColumns = `id, horario::text, setor, local, avaliacao, deleted`

// FindActiveByID returns the row only while it has not been soft-deleted.
// A soft-deleted avaliacao is indistinguishable from a missing one.
func (s *Postgres) FindActiveByID(ctx context.Context, id int64) (*models.Evaluation, error) {
	row := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM avaliacoes WHERE id = $1 AND deleted = 0`,
		id,
	)
	ev, err := scanEvaluation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find avaliacao by id: %w", err)
	}
	return ev, nil
}

// ListActive returns the avaliacoes that have not been soft-deleted.
func (s *Postgres) ListActive(ctx context.Context) ([]models.Evaluation, error) {
	return s.list(ctx, 0)
}

// ListDeleted returns the soft-deleted avaliacoes.
func (s *Postgres) ListDeleted(ctx context.Context) ([]models.Evaluation, error) {
	return s.list(ctx, 1)
}

func (s *Postgres) list(ctx context.Context, deleted int) ([]models.Evaluation, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx,
		`SELECT `+selectColumns+` FROM avaliacoes WHERE deleted = $1 ORDER BY id`,
		deleted,
	)
	if err != nil {
		return nil, fmt.Errorf("list avaliacoes: %w", err)
	}
	defer rows.Close()

	var out []models.Evaluation
	for rows.Next() {
		ev, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan avaliacao: %w", err)
		}
		out = append(out, *ev)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvaluation(sc scanner) (*models.Evaluation, error) {
	ev := &models.Evaluation{}
	var deleted int
	if err := sc.Scan(&ev.ID, &ev.Horario, &ev.Setor, &ev.Local, &ev.Avaliacao, &deleted); err != nil {
		return nil, err
	}
	ev.Status = models.StatusActive
	if deleted != 0 {
		ev.Status = models.StatusDeleted
	}
	return ev, nil
}
