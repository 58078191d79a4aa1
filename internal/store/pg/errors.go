package pg

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fsotosa-ops/oasis-backend/internal/domain/repository"
)

// Códigos SQLSTATE que este servicio traduce a errores de dominio.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
	codeInsufficientPriv    = "42501"
)

// mapErr traduce errores de pgx/PostgreSQL al vocabulario del dominio.
// Fuera de esta capa nadie hace string-matching sobre mensajes del driver.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: registro duplicado", repository.ErrConflict)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: referencia inexistente", repository.ErrConflict)
		case codeCheckViolation, codeNotNullViolation:
			return fmt.Errorf("%w: %s", repository.ErrInvalidInput, pgErr.ConstraintName)
		case codeInsufficientPriv:
			return repository.ErrInsufficientPrivilege
		}
	}
	return err
}
