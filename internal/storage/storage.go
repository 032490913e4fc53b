// Package storage defines the Storage interface, the contract that any
// database backend must satisfy to work with this application.
//
// The service layer depends only on this interface, so switching databases
// means implementing it for the new backend and changing one line in
// main.go, and service tests can pass a fake instead of a real database.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/student-registry/internal/types"
)

var (
	// ErrNotFound is returned when no row matches the requested id.
	ErrNotFound = errors.New("storage: student not found")

	// ErrConstraint is returned when the database rejects a row because of a
	// NOT NULL, CHECK, UNIQUE or foreign-key constraint.
	ErrConstraint = errors.New("storage: constraint violation")
)

// NotFoundError is returned by Save when the id to overwrite matches no row.
// It satisfies errors.Is(err, ErrNotFound) and its message is the one API
// clients see.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return "Student not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Storage is the persistence contract for Student records.
// Every method takes a context so a cancelled request cancels its query.
type Storage interface {
	// Save inserts the student when ID is 0 and returns it with the
	// database-assigned ID. A non-zero ID overwrites that row; if the row
	// does not exist Save fails with *NotFoundError rather than inserting.
	Save(ctx context.Context, student types.Student) (types.Student, error)

	// FindByID returns ErrNotFound when no student has the given id.
	FindByID(ctx context.Context, id int64) (types.Student, error)

	// DeleteByID removes the student with the given id. Deleting an id that
	// does not exist is a no-op.
	DeleteByID(ctx context.Context, id int64) error

	// Delete removes the given (persisted) student.
	Delete(ctx context.Context, student types.Student) error

	// Count returns the number of stored students.
	Count(ctx context.Context) (int64, error)

	// DeleteAll removes every student.
	DeleteAll(ctx context.Context) error

	// InTx runs fn against a Storage bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(Storage) error) error
}
