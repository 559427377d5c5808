package api

import (
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/go-chi/chi/v5"

	"github.com/somyu/user-service/internal/api/handler"
	"github.com/somyu/user-service/internal/api/middleware"
	"github.com/somyu/user-service/internal/auth"
	"github.com/somyu/user-service/internal/token"
	"github.com/somyu/user-service/internal/user"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	AuthService *auth.Service
	Codec       *token.Codec
	Store       user.Store
	DBPinger    handler.DBPinger
	Version     string
}

// NewRouter creates and configures a Chi router with all middleware and
// routes. The token authenticator runs on every request and never
// rejects; the public routes are exactly /health, POST
// /api/user/register and POST /api/auth/login, everything else
// requires an authenticated identity.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Authenticate(deps.Codec, deps.Store))

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	authHandler := handler.NewAuthHandler(deps.AuthService)
	userHandler := handler.NewUserHandler(deps.Store)

	r.Route("/api", func(r chi.Router) {
		r.Post("/user/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuthenticated())
			r.Get("/user/me", userHandler.Me)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(user.RoleAdmin))
			r.Get("/user/{id}", userHandler.GetByID)
		})
	})

	return r
}
