package repositories

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrCheckViolation = errors.New("check constraint violation")
)

// PostgreSQL SQLSTATE codes
const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
	codeOutOfRange      = "22003"
)

// mapError translates driver errors into repository errors, keeping the cause wrapped.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return errors.Join(ErrDuplicateKey, err)
		case codeCheckViolation, codeOutOfRange:
			return errors.Join(ErrCheckViolation, err)
		}
	}
	return err
}
