package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"medix/internal/specialty/handler"
	"medix/internal/specialty/models"
	"medix/internal/specialty/service"
	"medix/internal/specialty/store"
	"medix/pkg/platform/tx"
)

type HandlerSuite struct {
	suite.Suite
	store  *store.InMemory
	server *httptest.Server
}

func (s *HandlerSuite) SetupTest() {
	s.store = store.NewInMemory()
	svc := service.New(s.store, s.store, tx.Passthrough{}, nil)

	r := chi.NewRouter()
	h := handler.New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.Register(r)
	s.server = httptest.NewServer(r)
}

func (s *HandlerSuite) TearDownTest() {
	s.server.Close()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) create(nome string) models.Specialty {
	resp := s.do(http.MethodPost, "/especialidades", models.UpsertRequest{Nome: nome})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var created models.Specialty
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&created))
	return created
}

func (s *HandlerSuite) do(method, path string, body any) *http.Response {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *HandlerSuite) TestCreateReturnsCreatedRow() {
	created := s.create("Cardiologia")
	s.NotZero(created.ID)
	s.Equal("Cardiologia", created.Nome)
}

func (s *HandlerSuite) TestCreateSetsLocationHeader() {
	resp := s.do(http.MethodPost, "/especialidades", models.UpsertRequest{Nome: "Ortopedia"})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.True(strings.HasPrefix(resp.Header.Get("Location"), "/especialidades/"))
}

func (s *HandlerSuite) TestCreateInvalidBodyReturns400() {
	resp, err := s.server.Client().Post(
		s.server.URL+"/especialidades", "application/json", strings.NewReader("{not json"))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *HandlerSuite) TestCreateBlankNameReturns400() {
	resp := s.do(http.MethodPost, "/especialidades", models.UpsertRequest{Nome: "  "})
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *HandlerSuite) TestCreateDuplicateReturns409() {
	s.create("Pediatria")
	resp := s.do(http.MethodPost, "/especialidades", models.UpsertRequest{Nome: "PEDIATRIA"})
	defer resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *HandlerSuite) TestGetReturnsRow() {
	created := s.create("Neurologia")

	resp := s.do(http.MethodGet, fmt.Sprintf("/especialidades/%d", created.ID), nil)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var got models.Specialty
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&got))
	s.Equal(created, got)
}

func (s *HandlerSuite) TestGetMissingReturns404() {
	resp := s.do(http.MethodGet, "/especialidades/9999", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *HandlerSuite) TestGetNonNumericIDReturns400() {
	resp := s.do(http.MethodGet, "/especialidades/abc", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *HandlerSuite) TestListEmptyReturnsEmptyArray() {
	resp := s.do(http.MethodGet, "/especialidades", nil)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.JSONEq("[]", string(raw))
}

func (s *HandlerSuite) TestUpdateReturnsUpdatedRow() {
	created := s.create("Derma")

	resp := s.do(http.MethodPut, fmt.Sprintf("/especialidades/%d", created.ID),
		models.UpsertRequest{Nome: "Dermatologia"})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var updated models.Specialty
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&updated))
	s.Equal(created.ID, updated.ID)
	s.Equal("Dermatologia", updated.Nome)
}

func (s *HandlerSuite) TestUpdateMissingReturns404() {
	resp := s.do(http.MethodPut, "/especialidades/4242", models.UpsertRequest{Nome: "Qualquer"})
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *HandlerSuite) TestDeleteReturns204() {
	created := s.create("Oftalmologia")

	resp := s.do(http.MethodDelete, fmt.Sprintf("/especialidades/%d", created.ID), nil)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)

	resp = s.do(http.MethodGet, fmt.Sprintf("/especialidades/%d", created.ID), nil)
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *HandlerSuite) TestDeleteReferencedReturns409() {
	created := s.create("Cirurgia")
	s.store.MarkReferenced(created.ID)

	resp := s.do(http.MethodDelete, fmt.Sprintf("/especialidades/%d", created.ID), nil)
	defer resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *HandlerSuite) TestDemoInsertCreatesTwoRows() {
	resp := s.do(http.MethodPost, "/especialidades/demo-procedures/insert", nil)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Contains(string(raw), "PROC-Especialidade-A-")
	s.Contains(string(raw), "PROC-Especialidade-B-")

	listResp := s.do(http.MethodGet, "/especialidades", nil)
	defer listResp.Body.Close()
	var all []models.Specialty
	s.Require().NoError(json.NewDecoder(listResp.Body).Decode(&all))
	s.Len(all, 2)
}

func (s *HandlerSuite) TestDemoInsertRepeatableWithoutConflict() {
	for i := 0; i < 2; i++ {
		resp := s.do(http.MethodPost, "/especialidades/demo-procedures/insert", nil)
		resp.Body.Close()
		s.Require().Equal(http.StatusOK, resp.StatusCode)
	}
}

func (s *HandlerSuite) TestDemoUpdateRenamesBothRows() {
	first := s.create("Alpha")
	second := s.create("Beta")

	resp := s.do(http.MethodPatch, fmt.Sprintf(
		"/especialidades/demo-procedures/update?id1=%d&id2=%d", first.ID, second.ID), nil)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	getResp := s.do(http.MethodGet, fmt.Sprintf("/especialidades/%d", first.ID), nil)
	defer getResp.Body.Close()
	var got models.Specialty
	s.Require().NoError(json.NewDecoder(getResp.Body).Decode(&got))
	s.Equal("PROC-UPDT-A", got.Nome)
}

func (s *HandlerSuite) TestDemoUpdateMissingParamsReturns400() {
	resp := s.do(http.MethodPatch, "/especialidades/demo-procedures/update?id1=1", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *HandlerSuite) TestDemoDeleteRemovesBothRows() {
	first := s.create("Gamma")
	second := s.create("Delta")

	resp := s.do(http.MethodDelete, fmt.Sprintf(
		"/especialidades/demo-procedures/delete?id1=%d&id2=%d", first.ID, second.ID), nil)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)

	listResp := s.do(http.MethodGet, "/especialidades", nil)
	defer listResp.Body.Close()
	raw, err := io.ReadAll(listResp.Body)
	s.Require().NoError(err)
	s.JSONEq("[]", string(raw))
}
