package staff_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"medix/internal/staff"
	dErrors "medix/pkg/domain-errors"
)

type StaffSuite struct {
	suite.Suite
	store *staff.InMemoryStore
	svc   *staff.Service
}

func (s *StaffSuite) SetupTest() {
	s.store = staff.NewInMemoryStore()
	s.store.AllowSpecialty(1)
	s.svc = staff.NewService(s.store)
}

func TestStaffSuite(t *testing.T) {
	suite.Run(t, new(StaffSuite))
}

func (s *StaffSuite) validRequest() staff.UpsertRequest {
	return staff.UpsertRequest{
		Nome:            "Ana Souza",
		Email:           "Ana.Souza@medix.local",
		EspecialidadeID: 1,
	}
}

func (s *StaffSuite) TestCreateNormalizesEmail() {
	created, err := s.svc.Create(context.Background(), s.validRequest())
	s.Require().NoError(err)
	s.NotZero(created.ID)
	s.Equal("ana.souza@medix.local", created.Email)
}

func (s *StaffSuite) TestCreateMissingSpecialtyRejected() {
	req := s.validRequest()
	req.EspecialidadeID = 0
	_, err := s.svc.Create(context.Background(), req)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeValidation))
}

func (s *StaffSuite) TestCreateUnknownSpecialtyConflicts() {
	req := s.validRequest()
	req.EspecialidadeID = 42
	_, err := s.svc.Create(context.Background(), req)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeConflict))
}

func (s *StaffSuite) TestCreateDuplicateEmailConflicts() {
	_, err := s.svc.Create(context.Background(), s.validRequest())
	s.Require().NoError(err)

	_, err = s.svc.Create(context.Background(), s.validRequest())
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeConflict))
}

func (s *StaffSuite) TestGetMissingReturnsNotFound() {
	_, err := s.svc.Get(context.Background(), 999)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))
}

func (s *StaffSuite) TestSoftDeleteHidesFromListAndGet() {
	created, err := s.svc.Create(context.Background(), s.validRequest())
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Delete(context.Background(), created.ID))

	_, err = s.svc.Get(context.Background(), created.ID)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))

	all, err := s.svc.List(context.Background())
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *StaffSuite) TestUpdateReplacesFields() {
	created, err := s.svc.Create(context.Background(), s.validRequest())
	s.Require().NoError(err)

	req := s.validRequest()
	req.Nome = "Ana Souza Lima"
	updated, err := s.svc.Update(context.Background(), created.ID, req)
	s.Require().NoError(err)
	s.Equal("Ana Souza Lima", updated.Nome)
}

func (s *StaffSuite) TestUpdateDeletedReturnsNotFound() {
	created, err := s.svc.Create(context.Background(), s.validRequest())
	s.Require().NoError(err)
	s.Require().NoError(s.svc.Delete(context.Background(), created.ID))

	_, err = s.svc.Update(context.Background(), created.ID, s.validRequest())
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))
}
