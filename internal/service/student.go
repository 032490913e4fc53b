// Package service holds the Student business rules: it turns requests into
// entities through the mapper, persists them through the store and reports
// missing students as *NotFoundError.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-registry/internal/mapper"
	"github.com/aanand-mishra/student-registry/internal/storage"
	"github.com/aanand-mishra/student-registry/internal/types"
)

// NotFoundError reports that the requested entity does not exist.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

func errStudentNotFound() error {
	return &NotFoundError{Entity: "Student"}
}

// IsNotFound reports whether err is (or wraps) a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Mapper converts between DTOs and the Student entity.
// mapper.Student is the production implementation.
type Mapper interface {
	CreateRequestToModel(req types.StudentCreateRequest) (types.Student, error)
	UpdateRequestToModel(req types.StudentUpdateRequest) (types.Student, error)
	ModelToResponse(s types.Student) types.StudentResponse
}

var _ Mapper = mapper.Student{}

// StudentService implements the four Student use cases.
type StudentService struct {
	store  storage.Storage
	mapper Mapper
}

// NewStudentService wires a service to its store and mapper.
func NewStudentService(store storage.Storage, m Mapper) *StudentService {
	return &StudentService{store: store, mapper: m}
}

// GetStudent returns the student with the given id or *NotFoundError.
func (s *StudentService) GetStudent(ctx context.Context, id int64) (types.StudentResponse, error) {
	student, err := s.store.FindByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return types.StudentResponse{}, errStudentNotFound()
	}
	if err != nil {
		return types.StudentResponse{}, fmt.Errorf("get student: %w", err)
	}
	return s.mapper.ModelToResponse(student), nil
}

// DeleteStudent removes the student with the given id and returns it as it
// was before deletion. The lookup and the delete share one transaction.
func (s *StudentService) DeleteStudent(ctx context.Context, id int64) (types.StudentResponse, error) {
	var deleted types.Student

	err := s.store.InTx(ctx, func(tx storage.Storage) error {
		student, err := tx.FindByID(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return errStudentNotFound()
		}
		if err != nil {
			return fmt.Errorf("delete student: %w", err)
		}

		if err := tx.Delete(ctx, student); err != nil {
			return fmt.Errorf("delete student: %w", err)
		}
		deleted = student
		return nil
	})
	if err != nil {
		return types.StudentResponse{}, err
	}

	return s.mapper.ModelToResponse(deleted), nil
}

// SaveStudent creates a new student. An invalid request is rejected by the
// mapper before the store is touched.
func (s *StudentService) SaveStudent(ctx context.Context, req types.StudentCreateRequest) (types.StudentResponse, error) {
	student, err := s.mapper.CreateRequestToModel(req)
	if err != nil {
		return types.StudentResponse{}, err
	}

	saved, err := s.store.Save(ctx, student)
	if err != nil {
		return types.StudentResponse{}, err
	}
	return s.mapper.ModelToResponse(saved), nil
}

// UpdateStudent overwrites an existing student. Store errors, including the
// one for an id that does not exist, are returned unchanged.
func (s *StudentService) UpdateStudent(ctx context.Context, req types.StudentUpdateRequest) (types.StudentResponse, error) {
	student, err := s.mapper.UpdateRequestToModel(req)
	if err != nil {
		return types.StudentResponse{}, err
	}

	saved, err := s.store.Save(ctx, student)
	if err != nil {
		return types.StudentResponse{}, err
	}
	return s.mapper.ModelToResponse(saved), nil
}
