package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/keyforge/keyforge-be/internal/api/handlers"
	"github.com/keyforge/keyforge-be/internal/auth"
	"github.com/keyforge/keyforge-be/internal/realtime"
	"github.com/keyforge/keyforge-be/internal/services"
	"github.com/keyforge/keyforge-be/internal/session"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	allowedOrigin string,
	tokens *auth.Manager,
	sessions *session.Store,
	hub *realtime.Hub,
	userService services.UserServiceProvider,
	masterService services.MasterPasswordServiceProvider,
	entryService services.EntryServiceProvider,
	eventService services.EventServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens, sessions)
	masterHandler := handlers.NewMasterPasswordHandler(masterService)
	entryHandler := handlers.NewEntryHandler(entryService)
	generatorHandler := handlers.NewGeneratorHandler()
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// Public: account bootstrap and the pure generator endpoints.
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)
		r.Post("/auth/logout", userHandler.Logout)

		r.Route("/generator", func(r chi.Router) {
			r.Post("/password", generatorHandler.Generate)
			r.Post("/strength", generatorHandler.Strength)
		})

		// Authenticated: identity and the master password gate.
		r.Group(func(r chi.Router) {
			r.Use(tokens.RequireAuth())

			r.Get("/auth/user", userHandler.GetMe)
			r.Route("/auth/master-password", func(r chi.Router) {
				r.Post("/setup", masterHandler.Setup)
				r.Post("/verify", masterHandler.Verify)
				r.Get("/status", masterHandler.Status)
			})

			r.Get("/ws", wsHandler.Serve)

			// Vault: everything below also requires a verified session.
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireMasterPassword(sessions))

				r.Route("/entries", func(r chi.Router) {
					r.Get("/", entryHandler.GetAll)
					r.Post("/", entryHandler.Create)
					r.Delete("/", entryHandler.Clear)
					r.Delete("/{id}", entryHandler.Delete)
				})
				r.Get("/events", eventHandler.GetRecent)
			})
		})
	})

	return r
}
