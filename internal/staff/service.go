package staff

import (
	"context"
	"errors"
	"strings"

	dErrors "medix/pkg/domain-errors"
	"medix/pkg/platform/sentinel"
)

// Store persists colaboradores.
type Store interface {
	Insert(ctx context.Context, c Staff) (*Staff, error)
	FindByID(ctx context.Context, id int64) (*Staff, error)
	List(ctx context.Context) ([]Staff, error)
	Update(ctx context.Context, c Staff) (*Staff, error)
	SoftDelete(ctx context.Context, id int64) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (*Staff, error) {
	c, err := staffFromRequest(0, req)
	if err != nil {
		return nil, err
	}
	created, err := s.store.Insert(ctx, *c)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already in use or especialidade does not exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create colaborador")
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Staff, error) {
	found, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "colaborador not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find colaborador")
	}
	return found, nil
}

func (s *Service) List(ctx context.Context) ([]Staff, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list colaboradores")
	}
	return all, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpsertRequest) (*Staff, error) {
	c, err := staffFromRequest(id, req)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, *c)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "colaborador not found")
		}
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already in use or especialidade does not exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update colaborador")
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.store.SoftDelete(ctx, id)
	if err == nil {
		return nil
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "colaborador not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete colaborador")
}

func staffFromRequest(id int64, req UpsertRequest) (*Staff, error) {
	nome := strings.TrimSpace(req.Nome)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if nome == "" || email == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "nome and email are required")
	}
	if req.EspecialidadeID <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "especialidade_id is required")
	}
	return &Staff{
		ID:              id,
		Nome:            nome,
		Email:           email,
		EspecialidadeID: req.EspecialidadeID,
		UnidadeID:       req.UnidadeID,
	}, nil
}
