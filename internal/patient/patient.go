// Package patient manages pacientes: plain row operations with soft delete
// and a unique email.
package patient

import (
	"context"
	"errors"
	"strings"

	dErrors "medix/pkg/domain-errors"
	"medix/pkg/platform/sentinel"
)

type Patient struct {
	ID    int64  `json:"id"`
	Nome  string `json:"nome"`
	Email string `json:"email"`
}

type UpsertRequest struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
}

// Store persists pacientes.
type Store interface {
	Insert(ctx context.Context, p Patient) (*Patient, error)
	FindByID(ctx context.Context, id int64) (*Patient, error)
	List(ctx context.Context) ([]Patient, error)
	Update(ctx context.Context, p Patient) (*Patient, error)
	SoftDelete(ctx context.Context, id int64) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (*Patient, error) {
	p, err := patientFromRequest(0, req)
	if err != nil {
		return nil, err
	}
	created, err := s.store.Insert(ctx, *p)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already in use")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create paciente")
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	found, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "paciente not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find paciente")
	}
	return found, nil
}

func (s *Service) List(ctx context.Context) ([]Patient, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pacientes")
	}
	return all, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpsertRequest) (*Patient, error) {
	p, err := patientFromRequest(id, req)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, *p)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "paciente not found")
		}
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already in use")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update paciente")
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.store.SoftDelete(ctx, id)
	if err == nil {
		return nil
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "paciente not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete paciente")
}

func patientFromRequest(id int64, req UpsertRequest) (*Patient, error) {
	nome := strings.TrimSpace(req.Nome)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if nome == "" || email == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "nome and email are required")
	}
	return &Patient{ID: id, Nome: nome, Email: email}, nil
}
