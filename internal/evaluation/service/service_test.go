package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"medix/internal/evaluation/models"
	"medix/internal/evaluation/service"
	"medix/internal/evaluation/store"
	dErrors "medix/pkg/domain-errors"
	"medix/pkg/platform/tx"
)

type ServiceSuite struct {
	suite.Suite
	store *store.InMemory
	svc   *service.Service
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.svc = service.New(s.store, s.store, tx.Passthrough{})
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) validRequest() models.CreateRequest {
	return models.CreateRequest{
		Horario:   "14:30:00",
		Setor:     "Recepcao",
		Local:     "Unidade Centro",
		Avaliacao: "EXCELENTE",
	}
}

func (s *ServiceSuite) TestCreateEchoesInputWithoutID() {
	created, err := s.svc.Create(context.Background(), s.validRequest())
	s.Require().NoError(err)
	s.Require().NotNil(created)

	// The insert procedure keeps the generated ID to itself.
	s.Zero(created.ID)
	s.Equal("14:30:00", created.Horario)
	s.Equal("Recepcao", created.Setor)
	s.Equal(models.StatusActive, created.Status)
}

func (s *ServiceSuite) TestCreateStoresRowVisibleInListing() {
	_, err := s.svc.Create(context.Background(), s.validRequest())
	s.Require().NoError(err)

	all, err := s.svc.List(context.Background(), "")
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.NotZero(all[0].ID)
	s.Equal("EXCELENTE", all[0].Avaliacao)
}

func (s *ServiceSuite) TestCreateBadHorarioRejected() {
	for _, horario := range []string{"", "25:00:00", "14:30", "meio-dia"} {
		req := s.validRequest()
		req.Horario = horario
		_, err := s.svc.Create(context.Background(), req)
		s.Require().Error(err, "horario %q", horario)
		s.True(dErrors.Is(err, dErrors.CodeValidation), "horario %q", horario)
	}
}

func (s *ServiceSuite) TestCreateBlankFieldsRejected() {
	req := s.validRequest()
	req.Setor = "   "
	_, err := s.svc.Create(context.Background(), req)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestGetMissingReturnsNotFound() {
	_, err := s.svc.Get(context.Background(), 9999)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestListFilterDeletado() {
	_, err := s.svc.Create(context.Background(), s.validRequest())
	s.Require().NoError(err)
	second := s.validRequest()
	second.Avaliacao = "RUIM"
	_, err = s.svc.Create(context.Background(), second)
	s.Require().NoError(err)

	active, err := s.svc.List(context.Background(), "")
	s.Require().NoError(err)
	s.Require().Len(active, 2)

	s.Require().NoError(s.svc.SoftDelete(context.Background(), active[0].ID))

	active, err = s.svc.List(context.Background(), "")
	s.Require().NoError(err)
	s.Len(active, 1)

	deleted, err := s.svc.List(context.Background(), "deletado")
	s.Require().NoError(err)
	s.Require().Len(deleted, 1)
	s.Equal(models.StatusDeleted, deleted[0].Status)
}

func (s *ServiceSuite) TestListUnknownFilterFallsBackToActive() {
	_, err := s.svc.Create(context.Background(), s.validRequest())
	s.Require().NoError(err)

	all, err := s.svc.List(context.Background(), "qualquer-coisa")
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *ServiceSuite) TestUpdateMergePatchKeepsAbsentFields() {
	_, err := s.svc.Create(context.Background(), s.validRequest())
	s.Require().NoError(err)
	all, err := s.svc.List(context.Background(), "")
	s.Require().NoError(err)
	id := all[0].ID

	novoSetor := "Triagem"
	updated, err := s.svc.Update(context.Background(), id, models.UpdateRequest{Setor: &novoSetor})
	s.Require().NoError(err)
	s.Equal("Triagem", updated.Setor)
	s.Equal("Unidade Centro", updated.Local)
	s.Equal("EXCELENTE", updated.Avaliacao)
	s.Equal("14:30:00", updated.Horario)
}

func (s *ServiceSuite) TestUpdateMissingReturnsNotFound() {
	setor := "Triagem"
	_, err := s.svc.Update(context.Background(), 4242, models.UpdateRequest{Setor: &setor})
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestUpdateSoftDeletedReturnsNotFound() {
	_, err := s.svc.Create(context.Background(), s.validRequest())
	s.Require().NoError(err)
	all, err := s.svc.List(context.Background(), "")
	s.Require().NoError(err)
	id := all[0].ID

	s.Require().NoError(s.svc.SoftDelete(context.Background(), id))

	setor := "Triagem"
	_, err = s.svc.Update(context.Background(), id, models.UpdateRequest{Setor: &setor})
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestUpdateBlankPatchValueRejected() {
	_, err := s.svc.Create(context.Background(), s.validRequest())
	s.Require().NoError(err)
	all, err := s.svc.List(context.Background(), "")
	s.Require().NoError(err)

	blank := "  "
	_, err = s.svc.Update(context.Background(), all[0].ID, models.UpdateRequest{Local: &blank})
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestSoftDeleteHidesRowFromGet() {
	_, err := s.svc.Create(context.Background(), s.validRequest())
	s.Require().NoError(err)
	all, err := s.svc.List(context.Background(), "")
	s.Require().NoError(err)
	id := all[0].ID

	s.Require().NoError(s.svc.SoftDelete(context.Background(), id))

	_, err = s.svc.Get(context.Background(), id)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestSoftDeleteTwiceReturnsNotFound() {
	_, err := s.svc.Create(context.Background(), s.validRequest())
	s.Require().NoError(err)
	all, err := s.svc.List(context.Background(), "")
	s.Require().NoError(err)
	id := all[0].ID

	s.Require().NoError(s.svc.SoftDelete(context.Background(), id))

	err = s.svc.SoftDelete(context.Background(), id)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))
}
