package sqlstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// dialect captures the few places where the supported databases disagree:
// driver name, DDL, placeholder style and how a new id is returned.
type dialect struct {
	// driver is the name registered with database/sql.
	driver string

	// schema creates the students table if it is missing.
	schema string

	// numbered placeholders ($1, $2, ...) instead of ?.
	numbered bool

	// returning means INSERT ... RETURNING id is used instead of
	// sql.Result.LastInsertId, which the pgx driver does not support.
	returning bool

	// prepareDSN may rewrite the configured DSN before sql.Open.
	prepareDSN func(dsn string) (string, error)
}

// Supported values for config.Storage.Driver.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

var dialects = map[string]dialect{
	DriverSQLite: {
		driver: "sqlite3",
		schema: `
			CREATE TABLE IF NOT EXISTS students (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				full_name  TEXT    NOT NULL CHECK (trim(full_name)  <> ''),
				group_name TEXT    NOT NULL CHECK (trim(group_name) <> '')
			)`,
		prepareDSN: sqliteDSN,
	},
	DriverPostgres: {
		driver: "pgx",
		schema: `
			CREATE TABLE IF NOT EXISTS students (
				id         BIGSERIAL PRIMARY KEY,
				full_name  TEXT NOT NULL CHECK (btrim(full_name)  <> ''),
				group_name TEXT NOT NULL CHECK (btrim(group_name) <> '')
			)`,
		numbered:  true,
		returning: true,
	},
	DriverMySQL: {
		driver: "mysql",
		schema: `
			CREATE TABLE IF NOT EXISTS students (
				id         BIGINT       NOT NULL AUTO_INCREMENT PRIMARY KEY,
				full_name  VARCHAR(255) NOT NULL,
				group_name VARCHAR(255) NOT NULL,
				CONSTRAINT students_full_name_not_blank  CHECK (TRIM(full_name)  <> ''),
				CONSTRAINT students_group_name_not_blank CHECK (TRIM(group_name) <> '')
			)`,
		prepareDSN: mysqlDSN,
	},
}

func lookupDialect(name string) (dialect, error) {
	d, ok := dialects[name]
	if !ok {
		return dialect{}, fmt.Errorf("sqlstore: unsupported driver %q", name)
	}
	return d, nil
}

// rebind rewrites ? placeholders into $n for dialects that need it.
// Queries in this package never contain a literal question mark.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// sqliteDSN creates the parent directory of a file database so a fresh
// checkout can start with a path like "storage/students.db". In-memory
// databases are left alone.
func sqliteDSN(dsn string) (string, error) {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		if strings.Contains(path[i:], "mode=memory") {
			return dsn, nil
		}
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return dsn, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("sqlstore: create database directory: %w", err)
		}
	}
	return dsn, nil
}

// mysqlDSN turns on clientFoundRows: by default MySQL reports the rows
// changed by an UPDATE, not the rows matched, so rewriting a student with
// identical values would look like "no such id".
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("sqlstore: parse mysql dsn: %w", err)
	}
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}
