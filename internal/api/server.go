// Package api provides the HTTP API server and handlers for the ReelTrack application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/reeltrackapp/reeltrack-server/internal/catalog"
	"github.com/reeltrackapp/reeltrack-server/internal/http/response"
	"github.com/reeltrackapp/reeltrack-server/internal/service"
)

// Services groups the business services the handlers depend on.
type Services struct {
	Auth      *service.AuthService
	Session   *service.SessionService
	Watchlist *service.WatchlistService
	Social    *service.SocialService
	Profile   *service.ProfileService
	Feed      *service.FeedService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services *Services
	catalog  *catalog.Client
	router   *chi.Mux
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, catalogClient *catalog.Client, logger *slog.Logger) *Server {
	s := &Server{
		services: services,
		catalog:  catalogClient,
		router:   chi.NewRouter(),
		logger:   logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public).
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/refresh", s.handleRefresh)
			r.Post("/logout", s.handleLogout)
		})

		// Catalog browsing (require auth).
		r.Route("/catalog", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/search", s.handleCatalogSearch)
			r.Get("/trending", s.handleCatalogTrending)
			r.Get("/movies/popular", s.handlePopularMovies)
			r.Get("/series/popular", s.handlePopularSeries)
			r.Get("/genres/{kind}", s.handleGenres)
			r.Get("/discover/{kind}", s.handleDiscover)
			r.Get("/{kind}/{id}", s.handleMediaDetails)
		})

		// Watch list (require auth).
		r.Route("/list", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleGetOwnList)
			r.Post("/", s.handleAddToList)
			r.Get("/{kind}/{id}", s.handleGetEntry)
			r.Patch("/{kind}/{id}/status", s.handleUpdateStatus)
			r.Post("/{kind}/{id}/favorite", s.handleToggleFavorite)
			r.Post("/{kind}/{id}/rating", s.handleRateMedia)
			r.Patch("/{kind}/{id}/progress", s.handleSetProgress)
			r.Delete("/{kind}/{id}", s.handleRemoveFromList)
		})

		// Activity feed (require auth).
		r.With(s.requireAuth).Get("/feed", s.handleGetFeed)

		// Users and social graph (require auth).
		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.handleGetCurrentUser)
			r.Patch("/me", s.handleUpdateProfile)
			r.Get("/search", s.handleSearchUsers)
			r.Get("/{id}", s.handleGetUserProfile)
			r.Get("/{id}/list", s.handleGetUserList)
			r.Post("/{id}/follow", s.handleFollow)
			r.Delete("/{id}/follow", s.handleUnfollow)
			r.Get("/{id}/follow", s.handleIsFollowing)
			r.Get("/{id}/followers", s.handleGetFollowers)
			r.Get("/{id}/following", s.handleGetFollowing)
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
