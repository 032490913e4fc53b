// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Success responses return the payload as-is. Error responses always use
// the same envelope so API consumers know what to expect:
//
//	{ "status": "UNPROCESSABLE_ENTITY", "error": "Student not found" }
package response

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Response is the standard envelope returned for error cases.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// Order matters: Header() → WriteHeader() → body. Once WriteHeader is
// called, headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// Error builds the error envelope for an HTTP status. The status field is
// the upper-snake-case reason phrase, e.g. 422 → "UNPROCESSABLE_ENTITY".
func Error(status int, err error) Response {
	return Response{
		Status: StatusName(status),
		Error:  err.Error(),
	}
}

// WriteError writes the error envelope with the given status code.
func WriteError(w http.ResponseWriter, status int, err error) error {
	return WriteJSON(w, status, Error(status, err))
}

// StatusName turns an HTTP status code into its reason phrase in
// upper snake case: 400 → "BAD_REQUEST", 503 → "SERVICE_UNAVAILABLE".
func StatusName(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "UNKNOWN"
	}
	text = strings.ReplaceAll(text, "-", "_")
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
