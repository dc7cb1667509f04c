// Package rest exposes the profile service over JSON/HTTP.
package rest

import (
	"net/http"

	"github.com/dmitrijs2005/expertprofile/internal/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", common.AuthorizationHeader, "Content-Type", common.RequestIDHeader},
		ExposedHeaders: []string{common.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.health)

	r.Route(common.ProfilePath, func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/", s.getProfile)
		r.Post("/", s.saveProfile)
		r.Get("/revisions/{version}", s.getRevision)
	})

	return r
}
