package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	apperrors "github.com/angelmondragon/storerater-backend/pkg/errors"
)

// Postgres error codes we translate into the shared taxonomy.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// IsUniqueViolation reports whether the provided error references a Postgres
// unique violation constraint. When constraintName is provided, the helper looks
// for the constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if code := pgErrorCode(err); code != "" && code != pgUniqueViolation {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value")
}

// Translate maps driver-level errors onto the shared error taxonomy so
// repositories never leak raw Postgres errors to callers.
func Translate(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if notFoundMsg == "" {
			notFoundMsg = "resource not found"
		}
		return apperrors.New(apperrors.CodeNotFound, notFoundMsg)
	}

	switch pgErrorCode(err) {
	case pgUniqueViolation:
		return apperrors.Wrap(apperrors.CodeConflict, err, "resource already exists")
	case pgForeignKeyViolation:
		return apperrors.Wrap(apperrors.CodeValidation, err, "referenced resource does not exist")
	case pgCheckViolation:
		return apperrors.Wrap(apperrors.CodeValidation, err, "value violates a data constraint")
	}

	return apperrors.Wrap(apperrors.CodeInternal, err, "database operation failed")
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
