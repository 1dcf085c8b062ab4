package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	CORSOrigins []string
}

func NewRouter(server *Server, logger *slog.Logger, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(server.Recovery)

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
			ExposedHeaders: []string{requestIDHeader},
			MaxAge:         300,
		}))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger", http.StatusTemporaryRedirect)
	})

	r.Get("/healthz", server.HealthCheck)

	r.Route("/team", func(r chi.Router) {
		r.Post("/add", server.HandleTeamAdd)
		r.Get("/get", server.HandleTeamGet)
		r.Post("/delete", server.HandleTeamDelete)
		r.Post("/deactivate_members", server.HandleTeamDeactivateMembers)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/setIsActive", server.HandleUserSetIsActive)
		r.Get("/getReview", server.HandleUserGetReview)
	})

	r.Route("/pullRequest", func(r chi.Router) {
		r.Post("/create", server.HandlePullRequestCreate)
		r.Get("/get", server.HandlePullRequestGet)
		r.Post("/merge", server.HandlePullRequestMerge)
		r.Post("/reassign", server.HandlePullRequestReassign)
	})

	r.Route("/stats", func(r chi.Router) {
		r.Get("/assignments", server.HandleStatsAssignments)
		r.Get("/user_assignments", server.HandleStatsUserAssignments)
	})

	r.Get("/openapi.yaml", server.ServeOpenAPISpec)
	r.Get("/swagger", server.SwaggerUI)

	return r
}
