package sqlstore

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-registry/internal/storage"
)

func TestDialect_Rebind(t *testing.T) {
	pg := dialects[DriverPostgres]
	assert.Equal(t,
		"UPDATE students SET full_name = $1, group_name = $2 WHERE id = $3",
		pg.rebind(sqlUpdate))

	lite := dialects[DriverSQLite]
	assert.Equal(t, sqlUpdate, lite.rebind(sqlUpdate))
}

func TestMySQLDSN_EnablesClientFoundRows(t *testing.T) {
	dsn, err := mysqlDSN("app:secret@tcp(localhost:3306)/students")
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, cfg.ClientFoundRows)
	assert.Equal(t, "students", cfg.DBName)
}

func TestMapErr(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		constraint bool
	}{
		{"sqlite check", sqlite3.Error{Code: sqlite3.ErrConstraint}, true},
		{"sqlite busy", sqlite3.Error{Code: sqlite3.ErrBusy}, false},
		{"postgres check", &pgconn.PgError{Code: "23514"}, true},
		{"postgres not null", &pgconn.PgError{Code: "23502"}, true},
		{"postgres syntax", &pgconn.PgError{Code: "42601"}, false},
		{"mysql check", &mysql.MySQLError{Number: 3819}, true},
		{"mysql gone away", &mysql.MySQLError{Number: 2006}, false},
		{"plain", errors.New("plain"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapErr(tt.err)
			assert.Equal(t, tt.constraint, errors.Is(got, storage.ErrConstraint))
			assert.ErrorIs(t, got, tt.err, "driver error must stay in the chain")
		})
	}

	assert.NoError(t, mapErr(nil))
}

func TestSQLiteDSN(t *testing.T) {
	for _, dsn := range []string{":memory:", "file::memory:?cache=shared", "file:test.db?mode=memory"} {
		got, err := sqliteDSN(dsn)
		require.NoError(t, err)
		assert.Equal(t, dsn, got)
	}

	dir := filepath.Join(t.TempDir(), "storage")
	dsn := "file:" + filepath.Join(dir, "students.db") + "?_foreign_keys=on"
	got, err := sqliteDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, dsn, got)
	assert.DirExists(t, dir)
}
