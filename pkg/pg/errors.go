package pg

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	DialectPostgres = "postgres"
	DialectSqlite   = "sqlite3"
)

// SQLSTATE class 23 codes.
const (
	codeNotNullViolation    = "23502"
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return hasCode(err, codeUniqueViolation) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return hasCode(err, codeForeignKeyViolation) || strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func IsNotNullViolation(err error) bool {
	if err == nil {
		return false
	}
	return hasCode(err, codeNotNullViolation) || strings.Contains(err.Error(), "NOT NULL constraint failed")
}

// ConstraintColumn returns the column named by a not-null violation when the
// driver reports it.
func ConstraintColumn(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ColumnName
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Column
	}
	if msg := err.Error(); strings.Contains(msg, "NOT NULL constraint failed: ") {
		col := msg[strings.Index(msg, "NOT NULL constraint failed: ")+len("NOT NULL constraint failed: "):]
		if i := strings.LastIndex(col, "."); i >= 0 {
			col = col[i+1:]
		}
		return col
	}
	return ""
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	return false
}
