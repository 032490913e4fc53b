package sqlstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/aanand-mishra/student-registry/internal/storage"
)

// mapErr classifies driver errors into the storage sentinels. The driver
// error stays in the chain so callers can still inspect it.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if isConstraintViolation(err) {
		return fmt.Errorf("%w: %w", storage.ErrConstraint, err)
	}
	return err
}

func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}

	// SQLSTATE class 23: integrity constraint violation.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23")
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1048, // ER_BAD_NULL_ERROR
			1062, // ER_DUP_ENTRY
			1451, // ER_ROW_IS_REFERENCED_2
			1452, // ER_NO_REFERENCED_ROW_2
			3819: // ER_CHECK_CONSTRAINT_VIOLATED
			return true
		}
	}

	return false
}
