package facility_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"medix/internal/facility"
)

type FacilitySuite struct {
	suite.Suite
	store  *facility.InMemoryStore
	server *httptest.Server
}

func (s *FacilitySuite) SetupTest() {
	s.store = facility.NewInMemoryStore()
	r := chi.NewRouter()
	facility.NewHandler(facility.NewService(s.store)).Register(r)
	s.server = httptest.NewServer(r)
}

func (s *FacilitySuite) TearDownTest() {
	s.server.Close()
}

func TestFacilitySuite(t *testing.T) {
	suite.Run(t, new(FacilitySuite))
}

func (s *FacilitySuite) do(method, path string, body any) *http.Response {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *FacilitySuite) create(nome string) facility.Facility {
	resp := s.do(http.MethodPost, "/unidades", facility.UpsertRequest{
		Nome:     nome,
		Endereco: "Rua das Flores, 100",
		Telefone: "11 5555-0100",
	})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var created facility.Facility
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&created))
	return created
}

func (s *FacilitySuite) TestCreateAndGet() {
	created := s.create("Unidade Centro")
	s.NotZero(created.ID)

	resp := s.do(http.MethodGet, fmt.Sprintf("/unidades/%d", created.ID), nil)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var got facility.Facility
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&got))
	s.Equal(created, got)
}

func (s *FacilitySuite) TestCreateBlankNomeReturns400() {
	resp := s.do(http.MethodPost, "/unidades", facility.UpsertRequest{Nome: "  "})
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *FacilitySuite) TestListOrderedByID() {
	s.create("Unidade Centro")
	s.create("Unidade Sul")

	resp := s.do(http.MethodGet, "/unidades", nil)
	defer resp.Body.Close()
	var all []facility.Facility
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&all))
	s.Require().Len(all, 2)
	s.Equal("Unidade Centro", all[0].Nome)
	s.Equal("Unidade Sul", all[1].Nome)
}

func (s *FacilitySuite) TestUpdateMissingReturns404() {
	resp := s.do(http.MethodPut, "/unidades/999", facility.UpsertRequest{Nome: "X"})
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *FacilitySuite) TestUpdateReplacesFields() {
	created := s.create("Unidade Centro")

	resp := s.do(http.MethodPut, fmt.Sprintf("/unidades/%d", created.ID),
		facility.UpsertRequest{Nome: "Unidade Centro Novo", Telefone: "11 5555-0200"})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var updated facility.Facility
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&updated))
	s.Equal("Unidade Centro Novo", updated.Nome)
	s.Equal("11 5555-0200", updated.Telefone)
}

func (s *FacilitySuite) TestDeleteReferencedReturns409() {
	created := s.create("Unidade Centro")
	s.store.MarkReferenced(created.ID)

	resp := s.do(http.MethodDelete, fmt.Sprintf("/unidades/%d", created.ID), nil)
	defer resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *FacilitySuite) TestDeleteReturns204() {
	created := s.create("Unidade Centro")

	resp := s.do(http.MethodDelete, fmt.Sprintf("/unidades/%d", created.ID), nil)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)

	resp = s.do(http.MethodGet, fmt.Sprintf("/unidades/%d", created.ID), nil)
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}
