package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.withRequestLogging)
	r.Use(s.withAuth)

	// Health check and metrics.
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/info", s.handleInfo)

		r.Post("/grants/preview", s.handlePreviewGrant)

		r.Post("/tasks", s.handleCreateTask)
		r.Get("/tasks", s.handleListTasks)
		r.Get("/tasks/{id}", s.handleGetTask)
		r.Delete("/tasks/{id}", s.handleDeleteTask)

		r.Post("/milestones", s.handleCreateMilestone)
		r.Post("/milestones/{id}/tasks", s.handleCreateSubtask)
	})

	return r
}
