// Package api provides the HTTP API server and handlers for the ReadCircle application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/readcircle/readcircle-server/internal/ratelimit"
	"github.com/readcircle/readcircle-server/internal/service"
	"github.com/readcircle/readcircle-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authService      *service.AuthService
	userService      *service.UserService
	bookService      *service.BookService
	bookshelfService *service.BookshelfService
	circleService    *service.CircleService
	categoryService  *service.CategoryService
	readingService   *service.ReadingService
	insightService   *service.InsightService
	validator        *validation.Validator
	authLimiter      *ratelimit.KeyedRateLimiter
	router           *chi.Mux
	logger           *slog.Logger
	corsOrigins      []string
}

// ServerParams bundles the dependencies for NewServer.
type ServerParams struct {
	AuthService      *service.AuthService
	UserService      *service.UserService
	BookService      *service.BookService
	BookshelfService *service.BookshelfService
	CircleService    *service.CircleService
	CategoryService  *service.CategoryService
	ReadingService   *service.ReadingService
	InsightService   *service.InsightService
	Validator        *validation.Validator
	AuthLimiter      *ratelimit.KeyedRateLimiter
	Logger           *slog.Logger
	CORSOrigins      []string
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(params ServerParams) *Server {
	s := &Server{
		authService:      params.AuthService,
		userService:      params.UserService,
		bookService:      params.BookService,
		bookshelfService: params.BookshelfService,
		circleService:    params.CircleService,
		categoryService:  params.CategoryService,
		readingService:   params.ReadingService,
		insightService:   params.InsightService,
		validator:        params.Validator,
		authLimiter:      params.AuthLimiter,
		router:           chi.NewRouter(),
		logger:           params.Logger,
		corsOrigins:      params.CORSOrigins,
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
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public, rate limited).
		r.Route("/auth", func(r chi.Router) {
			r.Use(s.rateLimitByIP)
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/refresh", s.handleRefresh)
			r.Post("/logout", s.handleLogout)
		})

		// Protected user endpoints.
		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.handleGetCurrentUser)
			r.Patch("/me", s.handleUpdateProfile)
			r.Get("/me/insights", s.handleGetInsights)
		})

		// Book catalog (require auth).
		r.Route("/books", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateBook)
			r.Get("/", s.handleListBooks)
			r.Get("/{id}", s.handleGetBook)
			r.Patch("/{id}", s.handleUpdateBook)
		})

		// Bookshelves and their circles (require auth).
		r.Route("/bookshelves", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateBookshelf)
			r.Get("/", s.handleListBookshelves)
			r.Get("/public", s.handleListPublicBookshelves)
			r.Get("/{id}", s.handleGetBookshelf)
			r.Patch("/{id}", s.handleUpdateBookshelf)
			r.Delete("/{id}", s.handleDeleteBookshelf)

			r.Post("/{id}/books", s.handleAddBookToShelf)
			r.Delete("/{id}/books/{bookID}", s.handleRemoveBookFromShelf)

			// Circle membership workflow.
			r.Post("/{id}/join", s.handleRequestToJoin)
			r.Get("/{id}/members", s.handleGetMembers)
			r.Post("/{id}/members", s.handleAddMember)
			r.Delete("/{id}/members/{userID}", s.handleRemoveMember)
			r.Get("/{id}/pending", s.handleGetPendingMembers)
			r.Post("/{id}/pending/{userID}/accept", s.handleAcceptPending)
			r.Post("/{id}/pending/{userID}/reject", s.handleRejectPending)
		})

		// Categories (require auth).
		r.Route("/categories", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateCategory)
			r.Get("/", s.handleListCategories)
			r.Get("/{id}", s.handleGetCategory)
			r.Patch("/{id}", s.handleRenameCategory)
			r.Delete("/{id}", s.handleDeleteCategory)
			r.Post("/{id}/books", s.handleAddBookToCategory)
			r.Delete("/{id}/books/{bookID}", s.handleRemoveBookFromCategory)
		})

		// Reading state (require auth).
		r.Route("/reading", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListReadingStates)
			r.Get("/{bookID}", s.handleGetReadingState)
			r.Patch("/{bookID}", s.handleUpdateReadingState)
		})
	})
}
