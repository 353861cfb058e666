package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"medix/internal/auth/models"
	dErrors "medix/pkg/domain-errors"
	"medix/pkg/platform/sentinel"
)

// Access tokens are short-lived; there is no refresh flow, callers log in again.
const accessTokenTTL = 8 * time.Hour

// UserStore looks up authenticable accounts.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenIssuer mints signed access tokens.
type TokenIssuer interface {
	GenerateAccessToken(userID string, role string, expiresIn time.Duration) (string, error)
}

// RevocationList retires token IDs on logout.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// Service authenticates clinic users against bcrypt digests and issues JWTs.
type Service struct {
	users       UserStore
	tokens      TokenIssuer
	revocations RevocationList
	logger      *slog.Logger
}

func New(users UserStore, tokens TokenIssuer, revocations RevocationList, logger *slog.Logger) *Service {
	return &Service{
		users:       users,
		tokens:      tokens,
		revocations: revocations,
		logger:      logger,
	}
}

// Login verifies the credential pair and returns a bearer token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Senha == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "email and senha are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.SenhaHash), []byte(req.Senha)); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.GenerateAccessToken(formatID(user.ID), string(user.Role), accessTokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	return &models.LoginResponse{Token: token}, nil
}

// Logout retires the presented token's ID for the remainder of its lifetime.
func (s *Service) Logout(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return dErrors.New(dErrors.CodeBadRequest, "token carries no ID")
	}
	if err := s.revocations.Revoke(ctx, jti, ttl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
	}
	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
