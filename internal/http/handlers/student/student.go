// Package student contains all HTTP handlers related to the Student resource.
//
// Each exported function is a factory: it receives its dependencies once at
// startup and returns the http.HandlerFunc the router calls on every request.
//
//	router.HandleFunc("GET /student/get", student.Get(svc))
package student

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/student-registry/internal/types"
	"github.com/aanand-mishra/student-registry/internal/utils/response"
	"github.com/aanand-mishra/student-registry/internal/validation"
)

// maxBodyBytes caps the size of a JSON request body.
const maxBodyBytes = 1 << 20

// Service is what the handlers need from the service layer.
// *service.StudentService satisfies it.
type Service interface {
	GetStudent(ctx context.Context, id int64) (types.StudentResponse, error)
	DeleteStudent(ctx context.Context, id int64) (types.StudentResponse, error)
	SaveStudent(ctx context.Context, req types.StudentCreateRequest) (types.StudentResponse, error)
	UpdateStudent(ctx context.Context, req types.StudentUpdateRequest) (types.StudentResponse, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// Get handles GET /student/get?id={id}
//
// Success (200): { "id": 1, "fullName": "Lisnyak", "groupName": "M8O-313B" }
//
// Errors:
//
//	400 Bad Request         : id missing or not an integer
//	422 Unprocessable Entity: student not found or service failure
//
// ─────────────────────────────────────────────────────────────────────────────
func Get(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			response.WriteError(w, http.StatusBadRequest, err)
			return
		}
		slog.InfoContext(r.Context(), "getting a student", slog.Int64("id", id))

		student, err := svc.GetStudent(r.Context(), id)
		if err != nil {
			writeServiceError(r.Context(), w, "error getting student", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /student/delete?id={id}
// Returns the deleted student as it was before deletion.
//
// Errors: same as Get.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			response.WriteError(w, http.StatusBadRequest, err)
			return
		}
		slog.InfoContext(r.Context(), "deleting a student", slog.Int64("id", id))

		student, err := svc.DeleteStudent(r.Context(), id)
		if err != nil {
			writeServiceError(r.Context(), w, "error deleting student", err)
			return
		}

		slog.InfoContext(r.Context(), "student deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Save handles POST /student/save
//
// Request body:
//
//	{ "fullName": "Lisnyak", "groupName": "M8O-313B" }
//
// Success (200): the stored student including its new id.
//
// Errors:
//
//	400 Bad Request         : empty or malformed JSON body
//	422 Unprocessable Entity: blank fullName / groupName, or service failure
//
// ─────────────────────────────────────────────────────────────────────────────
func Save(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.InfoContext(r.Context(), "creating a student")

		var req types.StudentCreateRequest
		if err := decodeJSON(w, r, &req); err != nil {
			response.WriteError(w, http.StatusBadRequest, err)
			return
		}

		// Reject blank fields here so an invalid request never reaches the
		// service.
		if err := validation.Validate(req); err != nil {
			response.WriteError(w, http.StatusUnprocessableEntity, err)
			return
		}

		student, err := svc.SaveStudent(r.Context(), req)
		if err != nil {
			writeServiceError(r.Context(), w, "error creating student", err)
			return
		}

		slog.InfoContext(r.Context(), "student created", slog.Int64("id", student.ID))
		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /student/update
// Rewrites every field of an existing student.
//
// Request body:
//
//	{ "id": 1, "fullName": "Ivanov", "groupName": "M8O-202B" }
//
// Errors:
//
//	400 Bad Request         : empty or malformed JSON body
//	422 Unprocessable Entity: blank fields, missing id, unknown id
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.StudentUpdateRequest
		if err := decodeJSON(w, r, &req); err != nil {
			response.WriteError(w, http.StatusBadRequest, err)
			return
		}
		slog.InfoContext(r.Context(), "updating a student", slog.Int64("id", req.ID))

		if err := validation.Validate(req); err != nil {
			response.WriteError(w, http.StatusUnprocessableEntity, err)
			return
		}

		student, err := svc.UpdateStudent(r.Context(), req)
		if err != nil {
			writeServiceError(r.Context(), w, "error updating student", err)
			return
		}

		slog.InfoContext(r.Context(), "student updated", slog.Int64("id", student.ID))
		response.WriteJSON(w, http.StatusOK, student)
	}
}

// writeServiceError logs err and reports it as 422. Not-found, validation
// and persistence failures all share this status; the message tells them
// apart.
func writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	slog.ErrorContext(ctx, msg, slog.String("error", err.Error()))
	response.WriteError(w, http.StatusUnprocessableEntity, err)
}

func parseID(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		return 0, errors.New("query parameter id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("invalid id: must be an integer")
	}
	return id, nil
}

// decodeJSON reads exactly one JSON value from a body of at most
// maxBodyBytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	err := dec.Decode(v)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return errors.New("request body is empty")
	case errors.As(err, &tooLarge):
		return fmt.Errorf("request body must not exceed %d bytes", tooLarge.Limit)
	case err != nil:
		return err
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
