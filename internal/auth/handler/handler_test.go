package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"medix/internal/auth/handler"
	"medix/internal/auth/models"
	"medix/internal/auth/service"
	"medix/internal/auth/store/revocation"
	"medix/internal/auth/store/user"
	"medix/internal/jwttoken"
	"medix/internal/platform/middleware"
)

type HandlerSuite struct {
	suite.Suite
	users       *user.InMemory
	revocations *revocation.InMemory
	server      *httptest.Server
}

func (s *HandlerSuite) SetupTest() {
	s.users = user.NewInMemory()
	s.revocations = revocation.NewInMemory()
	tokens := jwttoken.NewJWTService("test-key", "medix", "medix-api")
	svc := service.New(s.users, tokens, s.revocations, silentLogger())

	r := chi.NewRouter()
	// Logout depends on the jti the authentication middleware stashes.
	r.Use(middleware.Authenticate(validator{tokens}, s.revocations, silentLogger()))
	handler.New(svc, silentLogger()).Register(r)
	s.server = httptest.NewServer(r)
}

func (s *HandlerSuite) TearDownTest() {
	s.server.Close()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type validator struct {
	tokens *jwttoken.JWTService
}

func (v validator) ValidateToken(token string) (*middleware.JWTClaims, error) {
	claims, err := v.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &middleware.JWTClaims{UserID: claims.UserID, Role: claims.Role, JTI: claims.ID}, nil
}

func (s *HandlerSuite) seedUser(email, senha string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.MinCost)
	s.Require().NoError(err)
	s.users.Seed(models.User{
		Email:     email,
		SenhaHash: string(hash),
		Role:      models.RoleCollaborator,
	})
}

func (s *HandlerSuite) login(email, senha string) *http.Response {
	body, err := json.Marshal(models.LoginRequest{Email: email, Senha: senha})
	s.Require().NoError(err)
	resp, err := s.server.Client().Post(
		s.server.URL+"/auth/login", "application/json", strings.NewReader(string(body)))
	s.Require().NoError(err)
	return resp
}

func (s *HandlerSuite) TestLoginReturnsToken() {
	s.seedUser("ana@medix.local", "segredo")

	resp := s.login("ana@medix.local", "segredo")
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var out models.LoginResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	s.NotEmpty(out.Token)
}

func (s *HandlerSuite) TestLoginWrongPasswordReturns401() {
	s.seedUser("ana@medix.local", "segredo")

	resp := s.login("ana@medix.local", "errado")
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *HandlerSuite) TestLoginUnknownEmailReturns401() {
	resp := s.login("ninguem@medix.local", "segredo")
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *HandlerSuite) TestLoginMissingFieldsReturns400() {
	resp := s.login("", "")
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *HandlerSuite) TestLogoutRevokesToken() {
	s.seedUser("ana@medix.local", "segredo")

	resp := s.login("ana@medix.local", "segredo")
	var out models.LoginResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodPost, s.server.URL+"/auth/logout", nil)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+out.Token)
	logoutResp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	logoutResp.Body.Close()
	s.Require().Equal(http.StatusNoContent, logoutResp.StatusCode)

	tokens := jwttoken.NewJWTService("test-key", "medix", "medix-api")
	claims, err := tokens.ValidateToken(out.Token)
	s.Require().NoError(err)
	revoked, err := s.revocations.IsRevoked(context.Background(), claims.ID)
	s.Require().NoError(err)
	s.True(revoked)
}

func (s *HandlerSuite) TestLogoutWithoutTokenReturns400() {
	resp, err := s.server.Client().Post(s.server.URL+"/auth/logout", "application/json", nil)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}
