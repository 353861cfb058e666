//go:build integration

package store_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"medix/internal/specialty/store"
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
	err := s.postgres.TruncateTables(context.Background(),
		"agendamentos", "colaboradores", "salas", "especialidades")
	s.Require().NoError(err)
}

// TestInsertProcedureThenFindByName exercises the write path end to end: the
// procedure returns nothing, the row is recovered by its case-insensitive
// name.
func (s *PostgresStoreSuite) TestInsertProcedureThenFindByName() {
	ctx := context.Background()
	nome := "Cardiologia " + uuid.NewString()[:8]

	s.Require().NoError(s.procs.Insert(ctx, nome))

	found, err := s.store.FindByName(ctx, nome)
	s.Require().NoError(err)
	s.NotZero(found.ID)
	s.Equal(nome, found.Nome)

	// Case-insensitive recovery relies on the lower(nome) index.
	upper, err := s.store.FindByName(ctx, strings.ToUpper(nome))
	s.Require().NoError(err)
	s.Equal(found.ID, upper.ID)
}

func (s *PostgresStoreSuite) TestInsertDuplicateNameConflicts() {
	ctx := context.Background()

	s.Require().NoError(s.procs.Insert(ctx, "Ortopedia"))

	err := s.procs.Insert(ctx, "ORTOPEDIA")
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrConflict))
}

func (s *PostgresStoreSuite) TestUpdateProcedureChangesRow() {
	ctx := context.Background()

	s.Require().NoError(s.procs.Insert(ctx, "Neuro"))
	created, err := s.store.FindByName(ctx, "Neuro")
	s.Require().NoError(err)

	s.Require().NoError(s.procs.Update(ctx, created.ID, "Neurologia"))

	updated, err := s.store.FindByID(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Neurologia", updated.Nome)
}

func (s *PostgresStoreSuite) TestDeleteProcedureRemovesRow() {
	ctx := context.Background()

	s.Require().NoError(s.procs.Insert(ctx, "Pediatria"))
	created, err := s.store.FindByName(ctx, "Pediatria")
	s.Require().NoError(err)

	s.Require().NoError(s.procs.Delete(ctx, created.ID))

	_, err = s.store.FindByID(ctx, created.ID)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *PostgresStoreSuite) TestDeleteReferencedSpecialtyConflicts() {
	ctx := context.Background()

	s.Require().NoError(s.procs.Insert(ctx, "Cirurgia"))
	created, err := s.store.FindByName(ctx, "Cirurgia")
	s.Require().NoError(err)

	_, err = s.postgres.DB.ExecContext(ctx,
		`INSERT INTO colaboradores (nome, email, especialidade_id)
		 VALUES ('Ana', 'ana@medix.local', $1)`, created.ID)
	s.Require().NoError(err)

	err = s.procs.Delete(ctx, created.ID)
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrConflict))
}

// TestConcurrentInsertSameName verifies that concurrent procedure calls with
// one name produce exactly one row.
func (s *PostgresStoreSuite) TestConcurrentInsertSameName() {
	ctx := context.Background()
	nome := "Concorrente " + uuid.NewString()[:8]
	const goroutines = 20

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.procs.Insert(ctx, nome)
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())
	s.Equal(int32(goroutines-1), conflictCount.Load())

	all, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}
