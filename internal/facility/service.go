package facility

import (
	"context"
	"errors"
	"strings"

	dErrors "medix/pkg/domain-errors"
	"medix/pkg/platform/sentinel"
)

// Store persists unidades.
type Store interface {
	Insert(ctx context.Context, f Facility) (*Facility, error)
	FindByID(ctx context.Context, id int64) (*Facility, error)
	List(ctx context.Context) ([]Facility, error)
	Update(ctx context.Context, f Facility) (*Facility, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (*Facility, error) {
	f, err := facilityFromRequest(0, req)
	if err != nil {
		return nil, err
	}
	created, err := s.store.Insert(ctx, *f)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create unidade")
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Facility, error) {
	found, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "unidade not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find unidade")
	}
	return found, nil
}

func (s *Service) List(ctx context.Context) ([]Facility, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list unidades")
	}
	return all, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpsertRequest) (*Facility, error) {
	f, err := facilityFromRequest(id, req)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, *f)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "unidade not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update unidade")
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.store.Delete(ctx, id)
	if err == nil {
		return nil
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "unidade not found")
	}
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.New(dErrors.CodeConflict, "unidade is referenced by other records")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete unidade")
}

func facilityFromRequest(id int64, req UpsertRequest) (*Facility, error) {
	nome := strings.TrimSpace(req.Nome)
	if nome == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "nome is required")
	}
	return &Facility{
		ID:       id,
		Nome:     nome,
		Endereco: strings.TrimSpace(req.Endereco),
		Telefone: strings.TrimSpace(req.Telefone),
	}, nil
}
