package api

import (
	"net/http"

	"github.com/dom/identity-service/internal/api/handlers"
	"github.com/dom/identity-service/internal/api/middleware"
	"github.com/dom/identity-service/internal/config"
	"github.com/dom/identity-service/internal/metrics"
	"github.com/dom/identity-service/internal/repository"
	"github.com/dom/identity-service/internal/service"
	"github.com/dom/identity-service/internal/token"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, codec *token.Codec, repos *repository.Repositories, collector *metrics.Collector, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)
	r.Use(collector.Middleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Method(http.MethodGet, "/metrics", collector.Handler())

	authHandler := handlers.NewAuthHandler(services.Auth)
	loginLimiter := middleware.NewLoginRateLimiter(cfg.LoginRatePerMinute, cfg.LoginBurst)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Public credential routes, throttled per client
			r.Group(func(r chi.Router) {
				r.Use(loginLimiter.Middleware)
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
			})
			r.Post("/refresh", authHandler.Refresh)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(codec, repos.User))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
				r.Put("/password", authHandler.ChangePassword)
			})
		})
	})

	return r
}
