// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, service, mapper and storage can all import types without
// depending on each other.
package types

// Student is the persisted record.
//
// ID is assigned by the database on first save. The zero value (0) means
// "not persisted yet"; a stored Student always has a non-zero ID.
type Student struct {
	ID        int64
	FullName  string
	GroupName string
}

// StudentCreateRequest is the body of POST /student/save.
//
// validate:"..." tags are checked by the go-playground/validator package.
// "notblank" is registered in internal/validation and rejects strings that
// are empty or contain only whitespace.
type StudentCreateRequest struct {
	FullName  string `json:"fullName"  validate:"notblank"`
	GroupName string `json:"groupName" validate:"notblank"`
}

// StudentUpdateRequest is the body of PUT /student/update.
// ID must reference an existing student; "required" rejects a missing (zero) id.
type StudentUpdateRequest struct {
	ID        int64  `json:"id"        validate:"required"`
	FullName  string `json:"fullName"  validate:"notblank"`
	GroupName string `json:"groupName" validate:"notblank"`
}

// StudentResponse is what every successful /student/* call returns.
// It is a direct projection of Student with no derived fields.
type StudentResponse struct {
	ID        int64  `json:"id"`
	FullName  string `json:"fullName"`
	GroupName string `json:"groupName"`
}
