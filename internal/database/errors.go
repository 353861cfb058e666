package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"medix/pkg/platform/sentinel"
)

// Postgres error codes the stores and gateways care about.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeRaisedException     = "P0001"
)

// MapError translates driver errors into sentinel facts. Unique violations,
// foreign-key dependencies, and procedure-raised application errors all
// surface as ErrConflict; missing rows as ErrNotFound.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case codeUniqueViolation, codeForeignKeyViolation, codeRaisedException:
			return fmt.Errorf("%w: %s", sentinel.ErrConflict, pqErr.Message)
		}
	}

	return err
}
