// Package service turns the non-returning especialidade procedures into
// observable CRUD. Every mutation is bracketed by reads: existence checks
// before update/delete, reconciliation reads after insert/update.
package service

import (
	"context"
	"errors"
	"strings"

	"medix/internal/platform/metrics"
	"medix/internal/specialty/models"
	dErrors "medix/pkg/domain-errors"
	"medix/pkg/platform/sentinel"
)

// Store reads especialidade rows with ordinary indexed queries.
type Store interface {
	FindByID(ctx context.Context, id int64) (*models.Specialty, error)
	FindByName(ctx context.Context, nome string) (*models.Specialty, error)
	List(ctx context.Context) ([]models.Specialty, error)
}

// Procedures is the gateway to the stored procedures. Calls return no data;
// effects are observed through Store.
type Procedures interface {
	Insert(ctx context.Context, nome string) error
	Update(ctx context.Context, id int64, nome string) error
	Delete(ctx context.Context, id int64) error
}

// TxRunner scopes a verify-call-reread sequence to one transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service orchestrates especialidade mutations.
type Service struct {
	store   Store
	procs   Procedures
	tx      TxRunner
	metrics *metrics.Metrics
}

func New(store Store, procs Procedures, tx TxRunner, m *metrics.Metrics) *Service {
	return &Service{store: store, procs: procs, tx: tx, metrics: m}
}

// Create inserts via procedure, then recovers the stored row by name. The
// procedure assigns the ID but returns nothing; if the follow-up read finds
// no row, that is an invariant break and surfaces as a reconciliation
// failure, never a silent success.
func (s *Service) Create(ctx context.Context, nome string) (*models.Specialty, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "nome is required")
	}

	var created *models.Specialty
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.procs.Insert(txCtx, nome); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "especialidade nome must be unique")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to insert especialidade")
		}

		found, err := s.store.FindByName(txCtx, nome)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				s.metrics.IncrementReconciliationFailures()
				return dErrors.New(dErrors.CodeReconciliation, "especialidade created but not retrievable by nome")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reconcile especialidade")
		}
		created = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns one especialidade by ID.
func (s *Service) Get(ctx context.Context, id int64) (*models.Specialty, error) {
	found, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "especialidade not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find especialidade")
	}
	return found, nil
}

// List returns all especialidades.
func (s *Service) List(ctx context.Context) ([]models.Specialty, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list especialidades")
	}
	return all, nil
}

// Update verifies the row exists, calls the update procedure, and re-reads
// the row — all inside one transaction so the existence check cannot go
// stale between verify and call.
func (s *Service) Update(ctx context.Context, id int64, nome string) (*models.Specialty, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "nome is required")
	}

	var updated *models.Specialty
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.store.FindByID(txCtx, id); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "especialidade not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to find especialidade")
		}

		if err := s.procs.Update(txCtx, id, nome); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "especialidade nome must be unique")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update especialidade")
		}

		found, err := s.store.FindByID(txCtx, id)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to re-read especialidade")
		}
		updated = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete verifies the row exists and hard-deletes it via procedure. A
// foreign-key dependency (an active colaborador referencing the
// especialidade) is a conflict, not a missing row.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.store.FindByID(txCtx, id); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "especialidade not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to find especialidade")
		}

		if err := s.procs.Delete(txCtx, id); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "especialidade is referenced by other records")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete especialidade")
		}
		return nil
	})
}
