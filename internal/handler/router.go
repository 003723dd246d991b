package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the chi router with the global middleware stack.
func NewRouter(h *EventHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger(logger))          // structured access log
	r.Use(CORS)                    // permissive CORS for a local client

	r.Get("/health", HealthCheck)

	r.Group(func(r chi.Router) {
		r.Use(Serialize)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Post("/", h.CreateEvent)
			r.Get("/{id}", h.GetEvent)
			r.Put("/{id}", h.UpdateEvent)
			r.Delete("/{id}", h.DeleteEvent)
			r.Post("/{id}/attendance", h.Register)
			r.Delete("/{id}/attendance", h.Unregister)
			r.Get("/{id}/attendance", h.EventAttendance)
		})

		r.Get("/users/{userID}/attendance", h.UserAttendance)

		r.Route("/session", func(r chi.Router) {
			r.Post("/", h.Login)
			r.Get("/", h.CurrentSession)
			r.Delete("/", h.Logout)
			r.Post("/repair", h.RepairSession)
		})
	})

	return r
}
