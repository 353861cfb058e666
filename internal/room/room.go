// Package room manages salas. A sala belongs to exactly one unidade and its
// numero is unique within that unidade.
package room

import (
	"context"
	"errors"
	"strings"

	dErrors "medix/pkg/domain-errors"
	"medix/pkg/platform/sentinel"
)

type Room struct {
	ID        int64  `json:"id"`
	Numero    string `json:"numero"`
	UnidadeID int64  `json:"unidade_id"`
}

type UpsertRequest struct {
	Numero    string `json:"numero"`
	UnidadeID int64  `json:"unidade_id"`
}

// Store persists salas.
type Store interface {
	Insert(ctx context.Context, r Room) (*Room, error)
	FindByID(ctx context.Context, id int64) (*Room, error)
	List(ctx context.Context) ([]Room, error)
	Update(ctx context.Context, r Room) (*Room, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (*Room, error) {
	room, err := roomFromRequest(0, req)
	if err != nil {
		return nil, err
	}
	created, err := s.store.Insert(ctx, *room)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "numero already used in this unidade, or unidade does not exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create sala")
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Room, error) {
	found, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "sala not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find sala")
	}
	return found, nil
}

func (s *Service) List(ctx context.Context) ([]Room, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list salas")
	}
	return all, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpsertRequest) (*Room, error) {
	room, err := roomFromRequest(id, req)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, *room)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "sala not found")
		}
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "numero already used in this unidade, or unidade does not exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update sala")
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.store.Delete(ctx, id)
	if err == nil {
		return nil
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "sala not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete sala")
}

func roomFromRequest(id int64, req UpsertRequest) (*Room, error) {
	numero := strings.TrimSpace(req.Numero)
	if numero == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "numero is required")
	}
	if req.UnidadeID <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "unidade_id is required")
	}
	return &Room{ID: id, Numero: numero, UnidadeID: req.UnidadeID}, nil
}
