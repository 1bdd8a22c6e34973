package zones

import (
	"net/http"

	"github.com/EmpoweredVote/EV-Complaints/internal/middleware"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// SetupRoutes mounts the read-only zone API. A nil limiter disables rate
// limiting on /resolve.
func SetupRoutes(h *Handler, limiter *rate.Limiter) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(middleware.RateLimit(limiter))
		}
		r.Get("/resolve", h.Resolve)
	})

	return r
}
