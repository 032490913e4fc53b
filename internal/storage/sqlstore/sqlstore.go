// Package sqlstore provides a database/sql implementation of the
// storage.Storage interface. The same code serves SQLite (mattn/go-sqlite3),
// PostgreSQL (jackc/pgx stdlib driver) and MySQL (go-sql-driver/mysql); the
// differences live in dialect.go.
//
// The sqlite3 and mysql drivers register themselves through the imports in
// dialect.go and errors.go; pgx is only needed for its side effect here.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/aanand-mishra/student-registry/internal/config"
	"github.com/aanand-mishra/student-registry/internal/storage"
	"github.com/aanand-mishra/student-registry/internal/types"
)

// querier is the subset of the database/sql API shared by *sql.DB and
// *sql.Tx, so the same methods work inside and outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the database/sql implementation of storage.Storage.
// A single *sql.DB is a connection pool and is safe for concurrent use.
type Store struct {
	db      *sql.DB
	q       querier
	tx      *sql.Tx
	dialect dialect
	log     *slog.Logger
}

var _ storage.Storage = (*Store)(nil)

const (
	sqlInsert     = `INSERT INTO students (full_name, group_name) VALUES (?, ?)`
	sqlUpdate     = `UPDATE students SET full_name = ?, group_name = ? WHERE id = ?`
	sqlFindByID   = `SELECT id, full_name, group_name FROM students WHERE id = ?`
	sqlDeleteByID = `DELETE FROM students WHERE id = ?`
	sqlCount      = `SELECT COUNT(*) FROM students`
	sqlDeleteAll  = `DELETE FROM students`
)

// New opens the database described by cfg, verifies connectivity and
// creates the students table if it does not already exist.
func New(ctx context.Context, cfg config.Storage) (*Store, error) {
	d, err := lookupDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn := cfg.DSN
	if d.prepareDSN != nil {
		if dsn, err = d.prepareDSN(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore.New: open db: %w", err)
	}

	if d.driver == "sqlite3" {
		// SQLite allows one writer at a time, and every connection to
		// ":memory:" is a separate database: keep exactly one connection.
		db.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore.New: ping: %w", err)
	}

	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore.New: create table: %w", err)
	}

	return &Store{
		db:      db,
		q:       db,
		dialect: d,
		log:     slog.Default().With(slog.String("component", "sqlstore")),
	}, nil
}

// Ping verifies that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts a new student (ID 0) or overwrites an existing one.
func (s *Store) Save(ctx context.Context, student types.Student) (types.Student, error) {
	if student.ID == 0 {
		return s.insert(ctx, student)
	}

	res, err := s.exec(ctx, sqlUpdate, student.FullName, student.GroupName, student.ID)
	if err != nil {
		return types.Student{}, fmt.Errorf("sqlstore: save student %d: %w", student.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return types.Student{}, fmt.Errorf("sqlstore: save student %d: rows affected: %w", student.ID, err)
	}
	if n == 0 {
		return types.Student{}, &storage.NotFoundError{ID: student.ID}
	}

	// Re-read so the caller gets exactly what is stored.
	return s.FindByID(ctx, student.ID)
}

func (s *Store) insert(ctx context.Context, student types.Student) (types.Student, error) {
	if s.dialect.returning {
		err := s.scanRow(ctx, sqlInsert+" RETURNING id",
			[]any{student.FullName, student.GroupName}, &student.ID)
		if err != nil {
			return types.Student{}, fmt.Errorf("sqlstore: insert student: %w", err)
		}
		return student, nil
	}

	res, err := s.exec(ctx, sqlInsert, student.FullName, student.GroupName)
	if err != nil {
		return types.Student{}, fmt.Errorf("sqlstore: insert student: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return types.Student{}, fmt.Errorf("sqlstore: insert student: last insert id: %w", err)
	}
	student.ID = id
	return student, nil
}

// FindByID returns storage.ErrNotFound (wrapped) when no row matches.
func (s *Store) FindByID(ctx context.Context, id int64) (types.Student, error) {
	var student types.Student
	err := s.scanRow(ctx, sqlFindByID, []any{id},
		&student.ID, &student.FullName, &student.GroupName)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Student{}, fmt.Errorf("sqlstore: find student %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return types.Student{}, fmt.Errorf("sqlstore: find student %d: %w", id, err)
	}
	return student, nil
}

// DeleteByID is a no-op when the id does not exist.
func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	if _, err := s.exec(ctx, sqlDeleteByID, id); err != nil {
		return fmt.Errorf("sqlstore: delete student %d: %w", id, err)
	}
	return nil
}

// Delete removes a persisted student. An unsaved student (ID 0) is rejected.
func (s *Store) Delete(ctx context.Context, student types.Student) error {
	if student.ID == 0 {
		return errors.New("sqlstore: delete student: student has no id")
	}
	return s.DeleteByID(ctx, student.ID)
}

// Count returns the number of rows in the students table.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.scanRow(ctx, sqlCount, nil, &n); err != nil {
		return 0, fmt.Errorf("sqlstore: count students: %w", err)
	}
	return n, nil
}

// DeleteAll empties the students table.
func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.exec(ctx, sqlDeleteAll); err != nil {
		return fmt.Errorf("sqlstore: delete all students: %w", err)
	}
	return nil
}

// InTx runs fn inside a transaction. A Store that is already bound to a
// transaction runs fn directly; nested transactions are not supported.
func (s *Store) InTx(ctx context.Context, fn func(storage.Storage) error) (err error) {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlstore: begin tx: %w", mapErr(err))
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = fmt.Errorf("sqlstore: rollback failed (%v) after: %w", rbErr, err)
		}
	}()

	txStore := &Store{
		db:      s.db,
		q:       tx,
		tx:      tx,
		dialect: s.dialect,
		log:     s.log,
	}
	if err = fn(txStore); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("sqlstore: commit tx: %w", mapErr(err))
	}
	committed = true
	return nil
}

// exec runs a statement that returns no rows, mapping and logging errors.
func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	query = s.dialect.rebind(query)
	start := time.Now()
	res, err := s.q.ExecContext(ctx, query, args...)
	err = mapErr(err)
	s.logQuery(ctx, query, time.Since(start), err)
	return res, err
}

// scanRow runs a single-row query and scans it into dest.
// sql.ErrNoRows is returned unchanged so callers can test for it.
func (s *Store) scanRow(ctx context.Context, query string, args []any, dest ...any) error {
	query = s.dialect.rebind(query)
	start := time.Now()
	err := mapErr(s.q.QueryRowContext(ctx, query, args...).Scan(dest...))
	s.logQuery(ctx, query, time.Since(start), err)
	return err
}

func (s *Store) logQuery(ctx context.Context, query string, d time.Duration, err error) {
	attrs := []any{
		slog.String("query", query),
		slog.Duration("duration", d),
		slog.Bool("tx", s.tx != nil),
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.log.ErrorContext(ctx, "query failed", append(attrs, slog.String("error", err.Error()))...)
		return
	}
	s.log.DebugContext(ctx, "query", attrs...)
}
