// Package health exposes the liveness endpoint.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/student-registry/internal/utils/response"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type status struct {
	Status string `json:"status"`
}

// New handles GET /health: 200 {"status":"ok"} when the store answers a
// ping within two seconds, 503 otherwise.
func New(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			slog.ErrorContext(r.Context(), "health check failed", slog.String("error", err.Error()))
			response.WriteError(w, http.StatusServiceUnavailable, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, status{Status: "ok"})
	}
}
