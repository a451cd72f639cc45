package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campusboard/feedengine/internal/middleware/metrics"
	"github.com/campusboard/feedengine/internal/setup"
)

// New creates and configures the chi router with all the routes.
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(metrics.Middleware)

	if origin := deps.Config.Public.CORSOrigin; origin != "" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{origin},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}

	h := deps.Handler

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(deps.AuthMiddleware.AdminOnly())

		// scope-bound surface: a hostel or club id
		r.Route("/{scope}", func(r chi.Router) {
			r.Post("/announcements", h.CreateAnnouncement)
			r.Get("/feed", h.GetFeed)
			r.Post("/feed/sessions", h.OpenSession)
		})

		// live feed sessions
		r.Route("/feed/sessions/{session}", func(r chi.Router) {
			r.Get("/", h.QuerySession)
			r.Delete("/", h.CloseSession)
			r.Get("/selection", h.GetSelection)
			r.Post("/selection", h.UpdateSelection)
		})

		// record-bound surface
		r.Route("/announcements", func(r chi.Router) {
			r.Post("/bulk/delete", h.BulkDelete)
			r.Post("/bulk/unpin", h.BulkUnpin)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetAnnouncement)
				r.Put("/", h.EditAnnouncement)
				r.Delete("/", h.DeleteAnnouncement)
				r.Get("/preview", h.PreviewDescription)
				r.Post("/pin", h.PinAnnouncement)
				r.Delete("/pin", h.UnpinAnnouncement)
				r.Put("/pin/order", h.SetPinOrder)
				r.Put("/poll", h.EditPoll)
				r.Delete("/poll", h.RemovePoll)
			})
		})
	})

	return r
}
