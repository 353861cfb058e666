package store

import (
	"context"
	"database/sql"

	"medix/internal/database"
	"medix/internal/platform/metrics"
	"medix/pkg/platform/tx"
)

// PostgresProcedures invokes the especialidade stored procedures. Each call
// is fire-and-forget: no result set, no returned ID. Driver errors are mapped
// to sentinel facts; no retries happen here.
type PostgresProcedures struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

func NewPostgresProcedures(db *sql.DB, m *metrics.Metrics) *PostgresProcedures {
	return &PostgresProcedures{db: db, metrics: m}
}

func (p *PostgresProcedures) Insert(ctx context.Context, nome string) error {
	_, err := tx.Executor(ctx, p.db).ExecContext(ctx,
		`CALL proc_insert_especialidade($1)`, nome)
	p.metrics.ObserveProcedureCall("proc_insert_especialidade", err)
	return database.MapError(err)
}

func (p *PostgresProcedures) Update(ctx context.Context, id int64, nome string) error {
	_, err := tx.Executor(ctx, p.db).ExecContext(ctx,
		`CALL proc_update_especialidade($1, $2)`, id, nome)
	p.metrics.ObserveProcedureCall("proc_update_especialidade", err)
	return database.MapError(err)
}

func (p *PostgresProcedures) Delete(ctx context.Context, id int64) error {
	_, err := tx.Executor(ctx, p.db).ExecContext(ctx,
		`CALL proc_delete_especialidade($1)`, id)
	p.metrics.ObserveProcedureCall("proc_delete_especialidade", err)
	return database.MapError(err)
}
