package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"crowdfund-client/internal/config"
	"crowdfund-client/internal/handler"
	"crowdfund-client/internal/middleware"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Projects *handler.ProjectHandler
}

func New(cfg *config.DevAPIConfig, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Post("/register/", h.Auth.Register)
		api.Post("/login/", h.Auth.Login)

		api.Group(func(authed chi.Router) {
			authed.Use(authMiddleware.RequireAuth)

			authed.Get("/projects/", h.Projects.List)
			authed.Post("/projects/create/", h.Projects.Create)
			authed.Get("/projects/{id}/", h.Projects.Get)
			authed.Put("/projects/{id}/update/", h.Projects.Update)
		})
	})

	return r
}
