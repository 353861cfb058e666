// Package appointment manages agendamentos. Rows are owned by the usuario
// who booked them: patients only see and cancel their own, colaboradores see
// everything. Cancellation flips the status, the row stays.
package appointment

import (
	"context"
	"errors"
	"time"

	dErrors "medix/pkg/domain-errors"
	"medix/pkg/platform/sentinel"
)

type Status string

const (
	StatusScheduled Status = "AGENDADO"
	StatusCancelled Status = "CANCELADO"
)

type Appointment struct {
	ID              int64     `json:"id"`
	UsuarioID       int64     `json:"usuario_id"`
	UnidadeID       int64     `json:"unidade_id"`
	EspecialidadeID int64     `json:"especialidade_id"`
	Data            time.Time `json:"data"`
	Status          Status    `json:"status"`
}

type CreateRequest struct {
	UnidadeID       int64     `json:"unidade_id"`
	EspecialidadeID int64     `json:"especialidade_id"`
	Data            time.Time `json:"data"`
}

// Store persists agendamentos.
type Store interface {
	Insert(ctx context.Context, a Appointment) (*Appointment, error)
	FindByID(ctx context.Context, id int64) (*Appointment, error)
	List(ctx context.Context) ([]Appointment, error)
	ListByUsuario(ctx context.Context, usuarioID int64) ([]Appointment, error)
	SetStatus(ctx context.Context, id int64, status Status) error
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Create(ctx context.Context, usuarioID int64, req CreateRequest) (*Appointment, error) {
	if req.UnidadeID <= 0 || req.EspecialidadeID <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "unidade_id and especialidade_id are required")
	}
	if req.Data.IsZero() || !req.Data.After(s.now()) {
		return nil, dErrors.New(dErrors.CodeValidation, "data must be in the future")
	}

	created, err := s.store.Insert(ctx, Appointment{
		UsuarioID:       usuarioID,
		UnidadeID:       req.UnidadeID,
		EspecialidadeID: req.EspecialidadeID,
		Data:            req.Data,
		Status:          StatusScheduled,
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "unidade or especialidade does not exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create agendamento")
	}
	return created, nil
}

// Get returns an agendamento. A non-owner who is not a colaborador gets 404,
// not 403: the existence of someone else's booking is not disclosed.
func (s *Service) Get(ctx context.Context, usuarioID int64, collaborator bool, id int64) (*Appointment, error) {
	found, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "agendamento not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find agendamento")
	}
	if !collaborator && found.UsuarioID != usuarioID {
		return nil, dErrors.New(dErrors.CodeNotFound, "agendamento not found")
	}
	return found, nil
}

// List returns all agendamentos for colaboradores, or only the caller's own.
func (s *Service) List(ctx context.Context, usuarioID int64, collaborator bool) ([]Appointment, error) {
	var (
		all []Appointment
		err error
	)
	if collaborator {
		all, err = s.store.List(ctx)
	} else {
		all, err = s.store.ListByUsuario(ctx, usuarioID)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list agendamentos")
	}
	return all, nil
}

// Cancel marks the agendamento CANCELADO. Cancelling twice conflicts.
func (s *Service) Cancel(ctx context.Context, usuarioID int64, collaborator bool, id int64) error {
	found, err := s.Get(ctx, usuarioID, collaborator, id)
	if err != nil {
		return err
	}
	if found.Status == StatusCancelled {
		return dErrors.New(dErrors.CodeConflict, "agendamento is already cancelled")
	}
	if err := s.store.SetStatus(ctx, id, StatusCancelled); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to cancel agendamento")
	}
	return nil
}
