// Package mapper converts between the wire-level DTOs and the persisted
// Student entity. It is pure: no I/O, no shared state.
package mapper

import (
	"github.com/aanand-mishra/student-registry/internal/types"
	"github.com/aanand-mishra/student-registry/internal/validation"
)

// Student is the stateless Student mapper. The zero value is ready to use.
type Student struct{}

// CreateRequestToModel turns a create request into an unsaved Student (ID 0).
// A request with blank fields yields a *validation.Error.
func (Student) CreateRequestToModel(req types.StudentCreateRequest) (types.Student, error) {
	if err := validation.Validate(req); err != nil {
		return types.Student{}, err
	}
	return types.Student{
		FullName:  req.FullName,
		GroupName: req.GroupName,
	}, nil
}

// UpdateRequestToModel turns an update request into a Student that carries
// the id of the row to overwrite.
func (Student) UpdateRequestToModel(req types.StudentUpdateRequest) (types.Student, error) {
	if err := validation.Validate(req); err != nil {
		return types.Student{}, err
	}
	return types.Student{
		ID:        req.ID,
		FullName:  req.FullName,
		GroupName: req.GroupName,
	}, nil
}

// ModelToResponse projects a Student onto the response shape.
func (Student) ModelToResponse(s types.Student) types.StudentResponse {
	return types.StudentResponse{
		ID:        s.ID,
		FullName:  s.FullName,
		GroupName: s.GroupName,
	}
}
