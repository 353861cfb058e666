package store

import (
	"context"
	"database/sql"

	"medix/internal/database"
	"medix/internal/platform/metrics"
	"medix/pkg/platform/tx"
)

// PostgresProcedures invokes the avaliacao stored procedures. Insert assigns
// the ID internally and returns nothing; delete flips the soft-delete flag
// rather than removing the row.
type PostgresProcedures struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

func NewPostgresProcedures(db *sql.DB, m *metrics.Metrics) *PostgresProcedures {
	return &PostgresProcedures{db: db, metrics: m}
}

func (p *PostgresProcedures) Insert(ctx context.Context, horario, setor, local, avaliacao string) error {
	_, err := tx.Executor(ctx, p.db).ExecContext(ctx,
		`CALL proc_insert_avaliacao($1::time, $2, $3, $4)`,
		horario, setor, local, avaliacao)
	p.metrics.ObserveProcedureCall("proc_insert_avaliacao", err)
	return database.MapError(err)
}

func (p *PostgresProcedures) Update(ctx context.Context, id int64, setor, local, avaliacao string) error {
	_, err := tx.Executor(ctx, p.db).ExecContext(ctx,
		`CALL proc_update_avaliacao($1, $2, $3, $4)`,
		id, setor, local, avaliacao)
	p.metrics.ObserveProcedureCall("proc_update_avaliacao", err)
	return database.MapError(err)
}

func (p *PostgresProcedures) SoftDelete(ctx context.Context, id int64) error {
	_, err := tx.Executor(ctx, p.db).ExecContext(ctx,
		`CALL proc_delete_avaliacao($1)`, id)
	p.metrics.ObserveProcedureCall("proc_delete_avaliacao", err)
	return database.MapError(err)
}
