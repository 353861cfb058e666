package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"medix/internal/auth/models"
	"medix/pkg/platform/sentinel"
)

// Postgres reads accounts from the usuarios table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// FindByEmail returns the active account for the given email.
func (s *Postgres) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, senha_hash, role FROM usuarios WHERE email = $1 AND deleted = 0`,
		email,
	).Scan(&u.ID, &u.Email, &u.SenhaHash, &u.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}
