// Package service orchestrates avaliacao mutations over the stored
// procedures. Unlike especialidades, a freshly inserted avaliacao has no
// natural key to recover its row by, so Create answers with an echo of the
// accepted input instead of the stored row.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"medix/internal/evaluation/models"
	dErrors "medix/pkg/domain-errors"
	"medix/pkg/platform/sentinel"
)

// FilterDeleted is the list filter value that switches the listing to
// soft-deleted rows. Any other value, including none, lists active rows.
const FilterDeleted = "deletado"

// Store reads avaliacao rows.
type Store interface {
	FindActiveByID(ctx context.Context, id int64) (*models.Evaluation, error)
	ListActive(ctx context.Context) ([]models.Evaluation, error)
	ListDeleted(ctx context.Context) ([]models.Evaluation, error)
}

// Procedures is the gateway to the avaliacao stored procedures.
type Procedures interface {
	Insert(ctx context.Context, horario, setor, local, avaliacao string) error
	Update(ctx context.Context, id int64, setor, local, avaliacao string) error
	SoftDelete(ctx context.Context, id int64) error
}

// TxRunner scopes a verify-call-reread sequence to one transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	store Store
	procs Procedures
	tx    TxRunner
}

func New(store Store, procs Procedures, tx TxRunner) *Service {
	return &Service{store: store, procs: procs, tx: tx}
}

// Create validates the input and fires the insert procedure. The returned
// record echoes the request with a zero ID: the procedure does not hand the
// generated ID back and there is no unique column to re-read the row by. The
// stored row appears in subsequent listings.
func (s *Service) Create(ctx context.Context, req models.CreateRequest) (*models.Evaluation, error) {
	req.Horario = strings.TrimSpace(req.Horario)
	req.Setor = strings.TrimSpace(req.Setor)
	req.Local = strings.TrimSpace(req.Local)
	req.Avaliacao = strings.TrimSpace(req.Avaliacao)

	if req.Setor == "" || req.Local == "" || req.Avaliacao == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "setor, local and avaliacao are required")
	}
	if _, err := time.Parse(models.TimeOfDayLayout, req.Horario); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "horario must be in HH:MM:SS format")
	}

	if err := s.procs.Insert(ctx, req.Horario, req.Setor, req.Local, req.Avaliacao); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to insert avaliacao")
	}

	return &models.Evaluation{
		Horario:   req.Horario,
		Setor:     req.Setor,
		Local:     req.Local,
		Avaliacao: req.Avaliacao,
		Status:    models.StatusActive,
	}, nil
}

// Get returns an active avaliacao. Soft-deleted rows answer 404, not 409:
// deletion is presented to readers as absence.
func (s *Service) Get(ctx context.Context, id int64) (*models.Evaluation, error) {
	found, err := s.store.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "avaliacao not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find avaliacao")
	}
	return found, nil
}

// List returns active avaliacoes, or the soft-deleted ones when the filter
// says "deletado". Unknown filter values fall back to the active listing.
func (s *Service) List(ctx context.Context, filter string) ([]models.Evaluation, error) {
	var (
		all []models.Evaluation
		err error
	)
	if strings.EqualFold(strings.TrimSpace(filter), FilterDeleted) {
		all, err = s.store.ListDeleted(ctx)
	} else {
		all, err = s.store.ListActive(ctx)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list avaliacoes")
	}
	return all, nil
}

// Update merge-patches an active avaliacao: absent fields keep their stored
// values. Verify, procedure call and re-read share one transaction.
func (s *Service) Update(ctx context.Context, id int64, req models.UpdateRequest) (*models.Evaluation, error) {
	var updated *models.Evaluation
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.store.FindActiveByID(txCtx, id)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "avaliacao not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to find avaliacao")
		}

		setor := patch(current.Setor, req.Setor)
		local := patch(current.Local, req.Local)
		avaliacao := patch(current.Avaliacao, req.Avaliacao)
		if setor == "" || local == "" || avaliacao == "" {
			return dErrors.New(dErrors.CodeValidation, "setor, local and avaliacao must not be blank")
		}

		if err := s.procs.Update(txCtx, id, setor, local, avaliacao); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update avaliacao")
		}

		found, err := s.store.FindActiveByID(txCtx, id)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to re-read avaliacao")
		}
		updated = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SoftDelete verifies the row is still active and flips the deleted flag.
// Deleting an already-deleted avaliacao is a 404, same as a missing one.
func (s *Service) SoftDelete(ctx context.Context, id int64) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.store.FindActiveByID(txCtx, id); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "avaliacao not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to find avaliacao")
		}

		if err := s.procs.SoftDelete(txCtx, id); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete avaliacao")
		}
		return nil
	})
}

func patch(current string, field *string) string {
	if field == nil {
		return current
	}
	return strings.TrimSpace(*field)
}
