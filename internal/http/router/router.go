// Package router builds the application's HTTP handler.
//
// Route table:
//
//	GET    /student/get?id={id}     → fetch one student
//	DELETE /student/delete?id={id}  → delete a student, return it
//	POST   /student/save            → create a student
//	PUT    /student/update          → overwrite a student
//	GET    /health                  → store liveness
package router

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-registry/internal/http/handlers/health"
	"github.com/aanand-mishra/student-registry/internal/http/handlers/student"
	"github.com/aanand-mishra/student-registry/internal/http/middleware"
)

// New registers every route on a ServeMux and wraps it with the
// middleware chain. Requests for a known path with the wrong method get
// 405 from the mux.
func New(svc student.Service, p health.Pinger, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /student/get", student.Get(svc))
	mux.HandleFunc("DELETE /student/delete", student.Delete(svc))
	mux.HandleFunc("POST /student/save", student.Save(svc))
	mux.HandleFunc("PUT /student/update", student.Update(svc))
	mux.HandleFunc("GET /health", health.New(p))

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logger(log),
		middleware.Recoverer(log),
	)
}
