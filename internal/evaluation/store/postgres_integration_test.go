//go:build integration

package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"medix/internal/evaluation/store"
	"medix/pkg/platform/sentinel"
	"medix/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
	procs    *store.PostgresProcedures
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.procs = store.NewPostgresProcedures(s.postgres.DB, nil)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "avaliacoes")
	s.Require().NoError(err)
}

// TestInsertProcedureStoresTimeAsText exercises the TIME column round trip:
// the procedure takes an HH:MM:SS string and the read casts it back to text.
func (s *PostgresStoreSuite) TestInsertProcedureStoresTimeAsText() {
	ctx := context.Background()

	s.Require().NoError(s.procs.Insert(ctx, "14:30:00", "Recepcao", "Unidade Centro", "EXCELENTE"))

	all, err := s.store.ListActive(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal("14:30:00", all[0].Horario)
	s.Equal("EXCELENTE", all[0].Avaliacao)
	s.NotZero(all[0].ID)
}

func (s *PostgresStoreSuite) TestSoftDeleteMovesRowBetweenListings() {
	ctx := context.Background()

	s.Require().NoError(s.procs.Insert(ctx, "09:00:00", "Triagem", "Unidade Sul", "BOM"))
	all, err := s.store.ListActive(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	id := all[0].ID

	s.Require().NoError(s.procs.SoftDelete(ctx, id))

	active, err := s.store.ListActive(ctx)
	s.Require().NoError(err)
	s.Empty(active)

	deleted, err := s.store.ListDeleted(ctx)
	s.Require().NoError(err)
	s.Require().Len(deleted, 1)
	s.Equal(id, deleted[0].ID)

	_, err = s.store.FindActiveByID(ctx, id)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *PostgresStoreSuite) TestUpdateProcedureSkipsSoftDeletedRows() {
	ctx := context.Background()

	s.Require().NoError(s.procs.Insert(ctx, "09:00:00", "Triagem", "Unidade Sul", "BOM"))
	all, err := s.store.ListActive(ctx)
	s.Require().NoError(err)
	id := all[0].ID

	s.Require().NoError(s.procs.SoftDelete(ctx, id))

	// The procedure raises no error for rows it does not touch.
	s.Require().NoError(s.procs.Update(ctx, id, "Farmacia", "Unidade Sul", "RUIM"))

	deleted, err := s.store.ListDeleted(ctx)
	s.Require().NoError(err)
	s.Require().Len(deleted, 1)
	s.Equal("Triagem", deleted[0].Setor)
}
